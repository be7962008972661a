package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type MockFnbRepo struct {
	mock.Mock
	domain.FnbRepository
}

func (m *MockFnbRepo) GetMenu(ctx context.Context) ([]domain.Snack, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Snack), args.Error(1)
}

func (m *MockFnbRepo) OrderForBooking(
	ctx context.Context,
	reference string,
	userID int,
	items []domain.FnbOrderItem) ([]domain.FnbOrderLine, decimal.Decimal, error) {

	args := m.Called(ctx, reference, userID, items)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).([]domain.FnbOrderLine), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockFnbRepo) LinesForBooking(ctx context.Context, bookingID int) ([]domain.FnbOrderLine, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FnbOrderLine), args.Error(1)
}
