package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrEditConflict      = errors.New("edit conflict")
	ErrUserAlreadyExists = errors.New("user already exists")

	ErrShowInactive       = errors.New("show is not open for booking")
	ErrShowAlreadyStarted = errors.New("show has already started")
	ErrShowSlotTaken      = errors.New("a show already exists on this screen at this time")

	ErrLayoutNotConfigured = errors.New("seat layout not configured for this screen")
	ErrPricingMissing      = errors.New("pricing not found for seat category")

	ErrNoLiveHolds             = errors.New("selected seats are no longer held or available")
	ErrBookingNotPending       = errors.New("payment can only be initiated for pending bookings")
	ErrPaymentAlreadyResolved  = errors.New("payment is already resolved and cannot be re-confirmed")
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")
	ErrBookingNotPaid          = errors.New("cannot cancel a booking that has not been paid")
	ErrCancellationCutoff      = errors.New("cancellation window has passed")
	ErrBookingNotConfirmed     = errors.New("food and beverages can only be added to a confirmed and paid booking")
)

// SeatFormatError reports a seat label that does not match the
// <row letters><seat number> format, e.g. "B12".
type SeatFormatError struct {
	Label string
}

func (e SeatFormatError) Error() string {
	return fmt.Sprintf("invalid seat label format: %s", e.Label)
}

// SeatOutOfLayoutError reports a seat label that parses correctly but does
// not belong to any category of the screen's layout. The whole batch is
// rejected, there is no partial acceptance.
type SeatOutOfLayoutError struct {
	Label string
}

func (e SeatOutOfLayoutError) Error() string {
	return fmt.Sprintf("seat %s does not exist in this screen layout", e.Label)
}

// SeatConflictError carries the subset of requested seats that are already
// confirmed, actively held, or blocked for the show.
type SeatConflictError struct {
	Labels []string
}

func (e SeatConflictError) Error() string {
	if len(e.Labels) == 0 {
		return "one or more selected seats were just taken"
	}
	return fmt.Sprintf("seats %s are already booked, held, or blocked", strings.Join(e.Labels, ", "))
}
