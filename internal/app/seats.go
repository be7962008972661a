package app

import (
	"net/http"

	"github.com/screenseat/cinema-booking-system/api"
)

func (app *application) getSeatMap(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r, "showID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	summary, err := app.showRepo.GetSummaryByID(r.Context(), showID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	layout, err := app.layoutRepo.GetByScreenID(r.Context(), summary.Show.ScreenID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	booked, err := app.seatRepo.BookedSeats(r.Context(), showID, timeNow().UTC())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	blocked, err := app.layoutRepo.GetBlockedSeats(r.Context(), summary.Show.ScreenID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	pricing, err := app.showRepo.GetPricing(r.Context(), showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.SeatMapResponse{
		Success: true,
		ShowID:  showID,
		Layout:  make(map[string]api.CategoryResponse, len(layout)),
		Booked:  booked,
		Blocked: blocked,
		Pricing: make(map[string]float64, len(pricing)),
	}
	for name, category := range layout {
		resp.Layout[name] = api.CategoryResponse{
			Rows:        category.Rows,
			SeatsPerRow: category.SeatsPerRow,
		}
	}
	for category, price := range pricing {
		resp.Pricing[category] = money(price)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) blockSeats(w http.ResponseWriter, r *http.Request) {
	var input api.BlockSeatsRequest

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

	layout, err := app.layoutRepo.GetByScreenID(r.Context(), input.ScreenID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	// Only seats the layout knows about can be blocked.
	_, err = layout.Classify(input.Seats)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.layoutRepo.BlockSeats(r.Context(), input.ScreenID, input.Seats)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MessageResponse{
		Success: true,
		Message: "seats blocked",
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
