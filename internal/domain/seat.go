package domain

import (
	"context"
	"time"
)

// HoldWindow bounds how long a seat stays exclusively held before a pending
// booking must complete payment.
const HoldWindow = 10 * time.Minute

type SeatStatus string

const (
	SeatHeld      SeatStatus = "held"
	SeatConfirmed SeatStatus = "confirmed"
	SeatCancelled SeatStatus = "cancelled"
	SeatExpired   SeatStatus = "expired"
)

// SeatHold is one row of the contended seat inventory. A seat is created as
// held with a bounded held_until, then either promoted to confirmed on
// payment success or released to cancelled; stale held rows are flipped to
// expired lazily when a later query observes them.
type SeatHold struct {
	ID           int
	UserID       int
	ShowID       int
	SeatLabel    string
	SeatCategory string
	Status       SeatStatus
	HeldUntil    *time.Time
	BookingID    *int
	CreatedAt    time.Time
}

// IsLive is the single liveness predicate for a seat row: confirmed rows
// block forever, held rows block only until held_until. Every read path
// that cares about seat availability must go through this definition (or
// its SQL equivalent) so expiry semantics cannot drift between call sites.
func (h SeatHold) IsLive(now time.Time) bool {
	switch h.Status {
	case SeatConfirmed:
		return true
	case SeatHeld:
		return h.HeldUntil != nil && h.HeldUntil.After(now)
	default:
		return false
	}
}

// SeatInventoryRepository exposes the read-side of the seat inventory. The
// write-side (hold placement, promotion, release) only exists inside the
// booking and payment transactions and is not reachable on its own.
type SeatInventoryRepository interface {
	// FindConflicts returns the subset of labels that are confirmed,
	// actively held at now, or administratively blocked for the show's
	// screen. Pure read, no mutation.
	FindConflicts(ctx context.Context, showID int, labels []string, now time.Time) ([]string, error)

	// BookedSeats lists every label that is confirmed or actively held for
	// the show, for the seat-map view. Blocked seats are a property of the
	// screen, not the show, and come from the layout repository.
	BookedSeats(ctx context.Context, showID int, now time.Time) ([]string, error)
}
