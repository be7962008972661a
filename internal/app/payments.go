package app

import (
	"net/http"

	"github.com/screenseat/cinema-booking-system/api"
	"github.com/screenseat/cinema-booking-system/internal/domain"
)

func (app *application) initiatePayment(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	user := app.contextGetUser(r)

	var input api.InitiatePaymentRequest

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

	transactionID, err := app.paymentProvider.CreateTransaction(r.Context(), input.PaymentMethod)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	intent, err := app.paymentRepo.Initiate(r.Context(), domain.InitiatePaymentParams{
		Reference:     input.BookingID,
		UserID:        user.ID,
		Method:        input.PaymentMethod,
		TransactionID: transactionID,
		IncludesFnb:   input.IncludesFnb,
		Now:           timeNow().UTC(),
	})
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	logger.Info("payment initiated",
		"reference", input.BookingID,
		"transaction_id", intent.TransactionID,
	)

	resp := api.InitiatePaymentResponse{
		Success:       true,
		TransactionID: intent.TransactionID,
		BookingID:     input.BookingID,
		Amount:        money(intent.Amount),
		Breakdown:     toBreakdownResponse(intent.Breakdown),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) confirmPayment(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	user := app.contextGetUser(r)

	var input api.ConfirmPaymentRequest

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

	outcome, err := app.paymentRepo.Confirm(r.Context(), domain.ConfirmPaymentParams{
		Reference:     input.BookingID,
		TransactionID: input.TransactionID,
		UserID:        user.ID,
		Success:       input.Status == "success",
	})
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	logger.Info("payment confirmed",
		"reference", input.BookingID,
		"booking_status", outcome.BookingStatus,
	)

	if outcome.BookingStatus == domain.BookingConfirmed {
		go func() {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic occurred during sending confirmation mail", "panic", err)
				}
			}()

			data := map[string]any{
				"Reference":    input.BookingID,
				"MovieTitle":   outcome.MovieTitle,
				"ShowStartsAt": outcome.ShowStartsAt.Format("Mon, 02 Jan 2006 15:04"),
				"Seats":        outcome.Seats,
			}

			err := app.mailer.Send(outcome.UserEmail, "booking_confirmation.tmpl", data)
			if err != nil {
				logger.Error("failed to send confirmation email", "error", err)
			} else {
				logger.Info("confirmation email sent successfully")
			}
		}()
	}

	message := "payment failed, booking released"
	if outcome.BookingStatus == domain.BookingConfirmed {
		message = "payment successful, booking confirmed"
	}

	resp := api.ConfirmPaymentResponse{
		Success:       true,
		Message:       message,
		BookingID:     input.BookingID,
		BookingStatus: string(outcome.BookingStatus),
		PaymentStatus: string(outcome.PaymentStatus),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBreakdownResponse(b domain.PriceBreakdown) api.PriceBreakdownResponse {
	return api.PriceBreakdownResponse{
		Tickets:        money(b.Tickets),
		Fnb:            money(b.Fnb),
		ConvenienceFee: money(b.ConvenienceFee),
		GST:            money(b.GST),
		Total:          money(b.Total),
	}
}
