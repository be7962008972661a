package app

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/screenseat/cinema-booking-system/api"
	"github.com/screenseat/cinema-booking-system/internal/domain"
	appvalidator "github.com/screenseat/cinema-booking-system/internal/validator"
)

func (app *application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Success: false,
		Message: message,
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource not found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "The method is not supported for this resource"
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.serverErrorResponse(w, r, err)
		return
	}

	fieldErrors := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		fieldErrors[fieldError.Field()] = appvalidator.ValidationMessage(fieldError)
	}

	resp := api.ErrorResponse{
		Success: false,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}

	writeErr := app.writeJSON(w, http.StatusBadRequest, resp, nil)
	if writeErr != nil {
		app.logError(r, writeErr)
		w.WriteHeader(500)
	}
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (app *application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	message := "Invalid authentication credentials"
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (app *application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	message := "You must be authenticated to access this resource"
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	message := "You do not have permission to access this resource"
	app.errorResponse(w, r, http.StatusForbidden, message)
}

func (app *application) goneResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusGone, err.Error())
}

// domainErrorResponse maps the shared domain failures onto their status
// codes so handlers only switch on the cases they treat specially.
func (app *application) domainErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		seatFormatErr   domain.SeatFormatError
		seatLayoutErr   domain.SeatOutOfLayoutError
		seatConflictErr domain.SeatConflictError
	)

	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.As(err, &seatFormatErr), errors.As(err, &seatLayoutErr):
		app.badRequestResponse(w, r, err)
	case errors.As(err, &seatConflictErr):
		app.conflictResponse(w, r, err)
	case errors.Is(err, domain.ErrShowSlotTaken),
		errors.Is(err, domain.ErrBookingAlreadyCancelled):
		app.conflictResponse(w, r, err)
	// Windows that have closed for good. Retrying the same request can
	// never succeed, so 410 rather than 409.
	case errors.Is(err, domain.ErrShowAlreadyStarted),
		errors.Is(err, domain.ErrPaymentAlreadyResolved),
		errors.Is(err, domain.ErrNoLiveHolds):
		app.goneResponse(w, r, err)
	// Policy rejections. The request is well-formed but the resource is
	// in a state where the rule forbids the operation.
	case errors.Is(err, domain.ErrShowInactive),
		errors.Is(err, domain.ErrBookingNotPending),
		errors.Is(err, domain.ErrBookingNotPaid),
		errors.Is(err, domain.ErrCancellationCutoff):
		app.errorResponse(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrBookingNotConfirmed),
		errors.Is(err, domain.ErrLayoutNotConfigured):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		app.serverErrorResponse(w, r, err)
	}
}
