package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type MockSeatInventoryRepo struct {
	mock.Mock
	domain.SeatInventoryRepository
}

func (m *MockSeatInventoryRepo) FindConflicts(ctx context.Context, showID int, labels []string, now time.Time) ([]string, error) {
	args := m.Called(ctx, showID, labels, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSeatInventoryRepo) BookedSeats(ctx context.Context, showID int, now time.Time) ([]string, error) {
	args := m.Called(ctx, showID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
