package domain

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// CancelCutoff is the hard boundary before showtime after which a paid
// booking can no longer be cancelled.
const CancelCutoff = 2 * time.Hour

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingFailed    BookingStatus = "failed"
)

type PaymentState string

const (
	PaymentPending  PaymentState = "pending"
	PaymentPaid     PaymentState = "paid"
	PaymentFailed   PaymentState = "failed"
	PaymentRefunded PaymentState = "refunded"
)

// Booking aggregates the seat holds placed for one reservation attempt.
// booking_status and payment_status move in lockstep: {pending,pending}
// becomes {confirmed,paid} or {failed,failed}; {cancelled,refunded} is only
// reachable from {confirmed,paid}.
type Booking struct {
	ID            int
	UserID        int
	ShowID        int
	Reference     string
	TotalAmount   decimal.Decimal
	BookingStatus BookingStatus
	PaymentStatus PaymentState
	UserEmail     string
	UserMobile    string
	BookedAt      time.Time
}

// NewBooking carries everything the booking-create transaction needs:
// seats classified per category, the totals already derived from current
// pricing, and the contact details snapshotted onto the booking row.
type NewBooking struct {
	UserID          int
	ShowID          int
	Reference       string
	ClassifiedSeats map[string][]string
	HoldWindow      time.Duration
	TotalAmount     decimal.Decimal
	UserEmail       string
	UserMobile      string
}

// Labels flattens the classified seat batch.
func (b NewBooking) Labels() []string {
	var labels []string
	for _, seats := range b.ClassifiedSeats {
		labels = append(labels, seats...)
	}

	return labels
}

// BookingSummary is one row of a user's booking history.
type BookingSummary struct {
	Reference     string
	TotalAmount   decimal.Decimal
	BookingStatus BookingStatus
	PaymentStatus PaymentState
	BookedAt      time.Time
	MovieTitle    string
	TheaterName   string
	ScreenName    string
	ShowStartsAt  time.Time
	Seats         []string
}

// BookingDetail is the full view of one booking, including the show it was
// made for and the confirmed seats attached to it.
type BookingDetail struct {
	Booking        Booking
	MovieTitle     string
	MoviePosterUrl string
	TheaterName    string
	TheaterAddress string
	ScreenName     string
	ShowStartsAt   time.Time
	Seats          []string
}

// CancellationDeadline is the instant from which a booking for a show
// starting at start can no longer be cancelled. Cancellation requires the
// current time to be strictly before it.
func CancellationDeadline(start time.Time) time.Time {
	return start.Add(-CancelCutoff)
}

// GenerateBookingReference produces a human-facing reference of the form
// PVR followed by six digits. Uniqueness is enforced by the database.
func GenerateBookingReference() string {
	return "PVR" + randomDigits(6)
}

// GenerateTransactionID produces a simulated payment transaction id of the
// form TXN followed by six digits.
func GenerateTransactionID() string {
	return "TXN" + randomDigits(6)
}

func randomDigits(n int) string {
	max := big.NewInt(1)
	for i := 0; i < n; i++ {
		max.Mul(max, big.NewInt(10))
	}

	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}

	return fmt.Sprintf("%0*d", n, v)
}

type BookingRepository interface {
	// Create places holds for the classified seats, inserts the pending
	// booking row, and attaches the holds to it, all in one transaction.
	// Conflicting seats surface as SeatConflictError.
	Create(ctx context.Context, booking NewBooking) (*Booking, error)

	GetSummariesByUserID(ctx context.Context, userID int) ([]BookingSummary, error)
	GetByReferenceAndUserID(ctx context.Context, reference string, userID int) (*BookingDetail, error)

	// Cancel moves a paid booking to cancelled/refunded and releases its
	// seats, enforcing the cancellation cutoff against now.
	Cancel(ctx context.Context, reference string, userID int, now time.Time) (*Booking, error)
}
