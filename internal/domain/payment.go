package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment is one attempt to pay for a booking. The breakdown is a snapshot
// taken at initiation time so the audit trail survives later pricing edits.
type Payment struct {
	ID            int
	BookingID     int
	TransactionID string
	Amount        decimal.Decimal
	Method        string
	Status        PaymentStatus
	Breakdown     PriceBreakdown
	CreatedAt     time.Time
}

// InitiatePaymentParams identifies the booking a payment is being opened
// for, the chosen method, and whether attached F&B orders should be folded
// into the amount.
type InitiatePaymentParams struct {
	Reference     string
	UserID        int
	Method        string
	TransactionID string
	IncludesFnb   bool
	Now           time.Time
}

// PaymentIntent is the outcome of a successful initiation.
type PaymentIntent struct {
	TransactionID string
	Amount        decimal.Decimal
	Breakdown     PriceBreakdown
}

// ConfirmPaymentParams drives the simulated second phase: the client
// reports the outcome for a previously issued transaction id.
type ConfirmPaymentParams struct {
	Reference     string
	TransactionID string
	UserID        int
	Success       bool
}

// PaymentOutcome reports the terminal booking and payment state reached by
// a confirmation, plus what the confirmation email needs.
type PaymentOutcome struct {
	BookingStatus BookingStatus
	PaymentStatus PaymentState
	UserEmail     string
	MovieTitle    string
	Seats         []string
	ShowStartsAt  time.Time
}

// PaymentProvider is the boundary to the payment gateway. The simulated
// provider validates the method and issues a transaction id; a real gateway
// integration would open a session here instead.
type PaymentProvider interface {
	CreateTransaction(ctx context.Context, method string) (string, error)
}

type PaymentRepository interface {
	// Initiate expires the booking's stale holds, re-derives the amount
	// from the live holds and current pricing, updates the booking total,
	// and records a pending payment, as one transaction. A booking with no
	// live holds left is force-failed and ErrNoLiveHolds returned.
	Initiate(ctx context.Context, params InitiatePaymentParams) (*PaymentIntent, error)

	// Confirm resolves a pending payment and drives the booking and its
	// seats to their terminal state. Re-confirming a resolved payment is
	// ErrPaymentAlreadyResolved.
	Confirm(ctx context.Context, params ConfirmPaymentParams) (*PaymentOutcome, error)
}
