package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type MockShowRepo struct {
	mock.Mock
	domain.ShowRepository
}

func (m *MockShowRepo) CreateWithPricing(ctx context.Context, show domain.NewShow) (*domain.Show, error) {
	args := m.Called(ctx, show)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Show), args.Error(1)
}

func (m *MockShowRepo) Update(ctx context.Context, showID int, update domain.ShowUpdate) (*domain.Show, error) {
	args := m.Called(ctx, showID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Show), args.Error(1)
}

func (m *MockShowRepo) GetSummaryByID(ctx context.Context, showID int) (*domain.ShowSummary, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShowSummary), args.Error(1)
}

func (m *MockShowRepo) GetPricing(ctx context.Context, showID int) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockShowRepo) ListByMovieAndDate(ctx context.Context, movieID int, date time.Time) ([]domain.ShowListing, error) {
	args := m.Called(ctx, movieID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShowListing), args.Error(1)
}
