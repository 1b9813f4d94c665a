package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SicrediBoleto holds the gateway-specific block of a boleto payment.
type SicrediBoleto struct {
	NossoNumero   string     `json:"nosso_numero"`
	Barcode       string     `json:"barcode"`
	DigitableLine string     `json:"digitable_line"`
	Status        string     `json:"status"` // REGISTRADO, PAGO, VENCIDO, CANCELADO
	DueDate       *time.Time `json:"due_date,omitempty"`
}

// Payment is a locally stored payment record. A boleto payment references
// exactly one of CustomerID or LegacyClientID; neither being set is an error
// condition surfaced during reconciliation.
type Payment struct {
	ID             uuid.UUID       `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method"`
	Status         string          `json:"status"` // pending, completed, cancelled
	Sicredi        *SicrediBoleto  `json:"sicredi,omitempty"`
	CustomerID     *string         `json:"customer_id,omitempty"`
	LegacyClientID *string         `json:"legacy_client_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Customer is a regular customer of the optics store.
type Customer struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Debts     decimal.Decimal `json:"debts"`
	CreatedAt time.Time       `json:"created_at"`
}

// LegacyClient is a customer record imported from the previous system. It
// shares the debt-reconciliation path with regular customers but nothing else.
type LegacyClient struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	TotalDebt decimal.Decimal `json:"total_debt"`
	CreatedAt time.Time       `json:"created_at"`
}

// SyncItemError records a single payment that failed reconciliation without
// aborting the batch.
type SyncItemError struct {
	PaymentID string `json:"payment_id"`
	Error     string `json:"error"`
}

// SyncSummary is the per-run classification histogram of gateway statuses.
type SyncSummary struct {
	Paid      int `json:"paid"`
	Overdue   int `json:"overdue"`
	Cancelled int `json:"cancelled"`
	Pending   int `json:"pending"`
}

// SyncResult accumulates the outcome of one reconciliation pass. It is
// transient: returned to the caller and logged, never persisted.
type SyncResult struct {
	TotalProcessed  int             `json:"total_processed"`
	UpdatedPayments int             `json:"updated_payments"`
	UpdatedDebts    int             `json:"updated_debts"`
	Errors          []SyncItemError `json:"errors"`
	Summary         SyncSummary     `json:"summary"`
}

// SyncStats buckets all gateway-tracked payments by their last known gateway
// status. Read-only observability view.
type SyncStats struct {
	TotalSicrediPayments int `json:"total_sicredi_payments"`
	PendingPayments      int `json:"pending_payments"`
	PaidPayments         int `json:"paid_payments"`
	OverduePayments      int `json:"overdue_payments"`
	CancelledPayments    int `json:"cancelled_payments"`
}
