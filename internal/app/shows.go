package app

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/screenseat/cinema-booking-system/api"
	"github.com/screenseat/cinema-booking-system/internal/domain"
)

func (app *application) listShows(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(r.URL.Query().Get("movieId"))
	if err != nil || movieID < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("movieId must be a positive integer"))
		return
	}

	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("date must be in YYYY-MM-DD format"))
		return
	}

	listings, err := app.showRepo.ListByMovieAndDate(r.Context(), movieID, date)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ShowListResponse{
		Success: true,
		Shows:   make([]api.ShowResponse, 0, len(listings)),
	}
	for _, listing := range listings {
		pricing := make(map[string]float64, len(listing.Pricing))
		for category, price := range listing.Pricing {
			pricing[category] = money(price)
		}

		resp.Shows = append(resp.Shows, api.ShowResponse{
			ID:             listing.ShowID,
			MovieID:        movieID,
			MovieTitle:     listing.MovieTitle,
			TheaterName:    listing.TheaterName,
			ScreenName:     listing.ScreenName,
			StartsAt:       listing.StartsAt,
			Format:         listing.Format,
			Language:       listing.Language,
			Status:         string(listing.Status),
			BasePrice:      money(listing.BasePrice),
			Pricing:        pricing,
			AvailableSeats: listing.AvailableSeats,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createShow(w http.ResponseWriter, r *http.Request) {
	var input api.CreateShowRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	startsAt, err := parseShowStart(input.ShowDate, input.ShowTime)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !startsAt.After(timeNow().UTC()) {
		app.badRequestResponse(w, r, fmt.Errorf("show start time must be in the future"))
		return
	}

	show := domain.NewShow{
		MovieID:   input.MovieID,
		ScreenID:  input.ScreenID,
		TheaterID: input.TheaterID,
		StartsAt:  startsAt,
		BasePrice: decimal.NewFromFloat(input.BasePrice),
		Format:    input.Format,
		Language:  input.Language,
	}

	created, err := app.showRepo.CreateWithPricing(r.Context(), show)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.CreatedResponse{
		Success: true,
		ID:      created.ID,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateShow(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r, "showID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateShowRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	// showDate and showTime travel together; a reschedule must supply both.
	if (input.ShowDate == nil) != (input.ShowTime == nil) {
		app.badRequestResponse(w, r, fmt.Errorf("showDate and showTime must be provided together"))
		return
	}

	var update domain.ShowUpdate

	if input.ShowDate != nil {
		startsAt, err := parseShowStart(*input.ShowDate, *input.ShowTime)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		update.StartsAt = &startsAt
	}
	if input.BasePrice != nil {
		price := decimal.NewFromFloat(*input.BasePrice)
		update.BasePrice = &price
	}
	if input.Status != nil {
		status := domain.ShowStatus(*input.Status)
		update.Status = &status
	}

	updated, err := app.showRepo.Update(r.Context(), showID, update)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.MessageResponse{
		Success: true,
		Message: fmt.Sprintf("show %d updated", updated.ID),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func parseShowStart(showDate, showTime string) (time.Time, error) {
	startsAt, err := time.Parse("2006-01-02 15:04", showDate+" "+showTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid show date or time")
	}

	return startsAt.UTC(), nil
}
