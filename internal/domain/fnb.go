package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Snack is one item of the food-and-beverage menu.
type Snack struct {
	ID       int
	Name     string
	Category string
	Size     string
	Price    decimal.Decimal
	IsVeg    bool
}

// FnbOrderItem is one requested line of an F&B order.
type FnbOrderItem struct {
	ItemID   int
	Quantity int
}

// FnbOrderLine is a priced line after validation, with the unit price
// captured at order time.
type FnbOrderLine struct {
	SnackID   int
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type FnbRepository interface {
	GetMenu(ctx context.Context) ([]Snack, error)

	// OrderForBooking validates the items, inserts the order lines, and
	// bumps the booking's total, all in one transaction. Only confirmed and
	// paid bookings accept F&B orders.
	OrderForBooking(ctx context.Context, reference string, userID int, items []FnbOrderItem) ([]FnbOrderLine, decimal.Decimal, error)

	// LinesForBooking returns the lines already ordered against a booking.
	LinesForBooking(ctx context.Context, bookingID int) ([]FnbOrderLine, error)
}
