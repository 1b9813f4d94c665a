package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusResult is the gateway's current view of a bank slip. Success=false
// with ErrorMessage set is a gateway-reported failure for that slip, as
// opposed to a transport error which is returned as a Go error.
type StatusResult struct {
	Success      bool            `json:"success"`
	Status       string          `json:"status,omitempty"` // REGISTRADO, PAGO, VENCIDO, CANCELADO
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	PaymentDate  *time.Time      `json:"payment_date,omitempty"`
	ErrorMessage string          `json:"error,omitempty"`
}

// Gateway is the sole point of contact with the external bank. Implementations
// are responsible for their own per-call timeouts; the reconciliation core
// processes slips sequentially and only propagates ctx.
type Gateway interface {
	// CheckStatus queries the bank for the current status of the boleto
	// identified by its nosso número reference.
	CheckStatus(ctx context.Context, nossoNumero string) (*StatusResult, error)
}
