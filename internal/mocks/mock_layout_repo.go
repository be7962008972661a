package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type MockLayoutRepo struct {
	mock.Mock
	domain.LayoutRepository
}

func (m *MockLayoutRepo) GetByScreenID(ctx context.Context, screenID int) (domain.SeatLayout, error) {
	args := m.Called(ctx, screenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.SeatLayout), args.Error(1)
}

func (m *MockLayoutRepo) GetBlockedSeats(ctx context.Context, screenID int) ([]string, error) {
	args := m.Called(ctx, screenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLayoutRepo) BlockSeats(ctx context.Context, screenID int, labels []string) error {
	args := m.Called(ctx, screenID, labels)
	return args.Error(0)
}
