package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type MockPaymentRepo struct {
	mock.Mock
	domain.PaymentRepository
}

func (m *MockPaymentRepo) Initiate(ctx context.Context, params domain.InitiatePaymentParams) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}

func (m *MockPaymentRepo) Confirm(ctx context.Context, params domain.ConfirmPaymentParams) (*domain.PaymentOutcome, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOutcome), args.Error(1)
}
