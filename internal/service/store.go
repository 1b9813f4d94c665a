package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oticavision/backoffice/internal/models"
)

// ListPaymentsParams filters a payment listing. Zero-valued fields are not
// applied. Page is 1-based.
type ListPaymentsParams struct {
	Page       int
	Limit      int
	Method     string
	Status     string
	CustomerID string
}

// PaymentStore is the payment collaborator contract consumed by the sync
// core. The core never writes payment fields directly except through
// UpdateGatewayStatus, the status-refresh path.
type PaymentStore interface {
	List(ctx context.Context, params ListPaymentsParams) ([]models.Payment, int, error)
	UpdateGatewayStatus(ctx context.Context, id uuid.UUID, gatewayStatus, localStatus string) error
}

// CustomerStore owns regular customers. Get returns (nil, nil) when the
// customer does not exist.
type CustomerStore interface {
	Get(ctx context.Context, id string) (*models.Customer, error)
	UpdateDebts(ctx context.Context, id string, debts decimal.Decimal) error
}

// LegacyClientStore owns clients imported from the prior system. Get returns
// (nil, nil) when the client does not exist.
type LegacyClientStore interface {
	Get(ctx context.Context, id string) (*models.LegacyClient, error)
	UpdateTotalDebt(ctx context.Context, id string, totalDebt decimal.Decimal) error
}
