package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oticavision/backoffice/internal/domain"
)

// MockGateway simulates the Sicredi boleto status endpoint for local
// development. It introduces a short random delay and fails ~5% of calls.
type MockGateway struct {
	// FailureRate is the probability of a gateway-reported failure (0.0 to 1.0).
	FailureRate float64
}

// NewMockGateway creates a MockGateway with default settings.
func NewMockGateway() *MockGateway {
	return &MockGateway{FailureRate: 0.05}
}

// CheckStatus simulates a bank status lookup. It sleeps 100-400ms to simulate
// network latency, then returns a pseudo-random status derived from the
// reference so repeated lookups of the same slip agree with each other.
func (g *MockGateway) CheckStatus(ctx context.Context, nossoNumero string) (*StatusResult, error) {
	delay := time.Duration(100+rand.Intn(300)) * time.Millisecond
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, fmt.Errorf("gateway call canceled: %w", ctx.Err())
	}

	if rand.Float64() < g.FailureRate {
		return &StatusResult{Success: false, ErrorMessage: "serviço temporariamente indisponível"}, nil
	}

	var seed int
	for _, c := range nossoNumero {
		seed += int(c)
	}
	switch seed % 4 {
	case 0:
		now := time.Now()
		return &StatusResult{
			Success:     true,
			Status:      domain.BoletoStatusPago,
			AmountPaid:  decimal.NewFromInt(int64(50 + seed%400)),
			PaymentDate: &now,
		}, nil
	case 1:
		return &StatusResult{Success: true, Status: domain.BoletoStatusVencido}, nil
	case 2:
		return &StatusResult{Success: true, Status: domain.BoletoStatusCancelado}, nil
	default:
		return &StatusResult{Success: true, Status: domain.BoletoStatusRegistrado}, nil
	}
}
