package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) CreateTransaction(ctx context.Context, method string) (string, error) {
	args := m.Called(ctx, method)
	return args.String(0), args.Error(1)
}
