package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ShowStatus string

const (
	ShowActive    ShowStatus = "active"
	ShowCancelled ShowStatus = "cancelled"
	ShowHousefull ShowStatus = "housefull"
)

type Show struct {
	ID        int
	MovieID   int
	ScreenID  int
	TheaterID int
	StartsAt  time.Time
	BasePrice decimal.Decimal
	Status    ShowStatus
	Format    string
	Language  string
}

// ShowSummary is the denormalised view a booking needs: the show row plus
// the names surrounding it.
type ShowSummary struct {
	Show        Show
	MovieTitle  string
	TheaterName string
	ScreenName  string
}

// ShowListing is one entry of the public shows-by-movie listing.
type ShowListing struct {
	ShowID         int
	MovieTitle     string
	StartsAt       time.Time
	BasePrice      decimal.Decimal
	Status         ShowStatus
	Format         string
	Language       string
	TheaterID      int
	TheaterName    string
	ScreenName     string
	AvailableSeats int
	Pricing        map[string]decimal.Decimal
}

// NewShow is the explicit create request; pricing rows are derived from the
// screen layout's categories inside the same transaction.
type NewShow struct {
	MovieID   int
	ScreenID  int
	TheaterID int
	StartsAt  time.Time
	BasePrice decimal.Decimal
	Format    string
	Language  string
}

// ShowUpdate is the fixed allow-list of mutable show fields. Nil fields are
// left untouched; a base price change cascades to the per-category pricing.
type ShowUpdate struct {
	StartsAt  *time.Time
	BasePrice *decimal.Decimal
	Status    *ShowStatus
}

type ShowRepository interface {
	// CreateWithPricing inserts the show and one pricing row per layout
	// category atomically. A screen without a valid layout, or any category
	// left without a pricing row, rolls the whole creation back.
	CreateWithPricing(ctx context.Context, show NewShow) (*Show, error)

	Update(ctx context.Context, showID int, update ShowUpdate) (*Show, error)

	GetSummaryByID(ctx context.Context, showID int) (*ShowSummary, error)
	GetPricing(ctx context.Context, showID int) (map[string]decimal.Decimal, error)
	ListByMovieAndDate(ctx context.Context, movieID int, date time.Time) ([]ShowListing, error)
}
