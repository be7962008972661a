package app

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/screenseat/cinema-booking-system/api"
	"github.com/screenseat/cinema-booking-system/internal/domain"
)

func (app *application) createBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	user := app.contextGetUser(r)

	var input api.CreateBookingRequest

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

	if label, ok := firstDuplicate(input.Seats); ok {
		app.badRequestResponse(w, r, fmt.Errorf("seat %s is requested more than once", label))
		return
	}

	summary, err := app.showRepo.GetSummaryByID(r.Context(), input.ShowID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	now := timeNow().UTC()
	if summary.Show.Status != domain.ShowActive {
		app.domainErrorResponse(w, r, domain.ErrShowInactive)
		return
	}
	if !summary.Show.StartsAt.After(now) {
		app.domainErrorResponse(w, r, domain.ErrShowAlreadyStarted)
		return
	}

	layout, err := app.layoutRepo.GetByScreenID(r.Context(), summary.Show.ScreenID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	classified, err := layout.Classify(input.Seats)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	pricing, err := app.showRepo.GetPricing(r.Context(), input.ShowID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	tickets, err := domain.TicketTotal(classified, pricing)
	if err != nil {
		logger.Error("pricing missing for seat category", "show_id", input.ShowID)
		app.serverErrorResponse(w, r, err)
		return
	}

	breakdown := domain.DeriveTotal(tickets, decimal.Zero)

	email := input.UserDetails.Email
	if email == "" {
		email = user.Email
	}

	booking := domain.NewBooking{
		UserID:          user.ID,
		ShowID:          input.ShowID,
		Reference:       domain.GenerateBookingReference(),
		ClassifiedSeats: classified,
		HoldWindow:      domain.HoldWindow,
		TotalAmount:     breakdown.Total,
		UserEmail:       email,
		UserMobile:      input.UserDetails.Mobile,
	}

	created, err := app.bookingRepo.Create(r.Context(), booking)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	logger.Info("booking created",
		"reference", created.Reference,
		"show_id", created.ShowID,
		"seats", len(input.Seats),
	)

	resp := api.BookingCreatedResponse{
		Success:     true,
		BookingID:   created.Reference,
		Status:      string(created.BookingStatus),
		Seats:       classified,
		TotalAmount: money(created.TotalAmount),
		HoldExpiry:  created.BookedAt.Add(domain.HoldWindow),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listBookings(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	summaries, err := app.bookingRepo.GetSummariesByUserID(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.BookingListResponse{
		Success:  true,
		Bookings: make([]api.BookingSummaryResponse, 0, len(summaries)),
	}
	for _, s := range summaries {
		resp.Bookings = append(resp.Bookings, api.BookingSummaryResponse{
			BookingID:   s.Reference,
			MovieTitle:  s.MovieTitle,
			TheaterName: s.TheaterName,
			StartsAt:    s.ShowStartsAt,
			Seats:       s.Seats,
			Status:      string(s.BookingStatus),
			TotalAmount: money(s.TotalAmount),
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getBooking(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)
	reference := chi.URLParam(r, "reference")

	detail, err := app.bookingRepo.GetByReferenceAndUserID(r.Context(), reference, user.ID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	lines, err := app.fnbRepo.LinesForBooking(r.Context(), detail.Booking.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.BookingDetailResponse{
		Success:       true,
		BookingID:     detail.Booking.Reference,
		MovieTitle:    detail.MovieTitle,
		TheaterName:   detail.TheaterName,
		ScreenName:    detail.ScreenName,
		StartsAt:      detail.ShowStartsAt,
		Seats:         detail.Seats,
		Status:        string(detail.Booking.BookingStatus),
		PaymentStatus: string(detail.Booking.PaymentStatus),
		TotalAmount:   money(detail.Booking.TotalAmount),
		Fnb:           toFnbLines(lines),
		CreatedAt:     detail.Booking.BookedAt,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) cancelBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	user := app.contextGetUser(r)
	reference := chi.URLParam(r, "reference")

	booking, err := app.bookingRepo.Cancel(r.Context(), reference, user.ID, timeNow().UTC())
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	logger.Info("booking cancelled", "reference", booking.Reference)

	resp := api.CancelBookingResponse{
		Success:      true,
		Message:      "booking cancelled and refund initiated",
		BookingID:    booking.Reference,
		RefundAmount: money(booking.TotalAmount),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func firstDuplicate(labels []string) (string, bool) {
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		if seen[label] {
			return label, true
		}
		seen[label] = true
	}

	return "", false
}
