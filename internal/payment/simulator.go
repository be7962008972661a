// Package payment holds the gateway boundary. There is no real gateway
// behind it; the simulated provider issues transaction ids and the client
// reports the outcome on the confirmation call.
package payment

import (
	"context"
	"fmt"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

var supportedMethods = map[string]bool{
	"card":       true,
	"upi":        true,
	"netbanking": true,
	"wallet":     true,
}

type SimulatedProvider struct {
}

func NewSimulatedProvider() *SimulatedProvider {
	return &SimulatedProvider{}
}

func (p *SimulatedProvider) CreateTransaction(ctx context.Context, method string) (string, error) {
	if !supportedMethods[method] {
		return "", fmt.Errorf("unsupported payment method: %s", method)
	}

	return domain.GenerateTransactionID(), nil
}
