package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/oticavision/backoffice/internal/domain"
	"github.com/oticavision/backoffice/internal/observability"
)

// DebtLedger applies paid-boleto amounts against client debt balances. It is
// the only component that mutates debts, and only downward, floored at zero.
type DebtLedger struct {
	customers CustomerStore
	legacy    LegacyClientStore
}

// NewDebtLedger creates a ledger over the two client stores.
func NewDebtLedger(customers CustomerStore, legacy LegacyClientStore) *DebtLedger {
	return &DebtLedger{customers: customers, legacy: legacy}
}

// ApplyPaid decreases the referenced client's debt by amountPaid. It returns
// whether a decrement was actually persisted. A reference to a client that no
// longer exists is a soft-fail: logged and counted, but not an error, so an
// orphaned payment cannot poison an otherwise successful pass.
func (l *DebtLedger) ApplyPaid(ctx context.Context, ref domain.ClientRef, amountPaid decimal.Decimal) (bool, error) {
	switch ref.Kind {
	case domain.ClientKindCustomer:
		return l.applyCustomer(ctx, ref.ID, amountPaid)
	case domain.ClientKindLegacy:
		return l.applyLegacy(ctx, ref.ID, amountPaid)
	default:
		return false, ErrNoClientRef
	}
}

func (l *DebtLedger) applyCustomer(ctx context.Context, id string, amountPaid decimal.Decimal) (bool, error) {
	customer, err := l.customers.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("load customer %s: %w", id, err)
	}
	if customer == nil {
		l.logOrphan("customer", id, amountPaid)
		return false, nil
	}

	newDebt := domain.SubtractFloored(customer.Debts, amountPaid)
	if err := l.customers.UpdateDebts(ctx, id, newDebt); err != nil {
		return false, fmt.Errorf("update customer %s debts: %w", id, err)
	}

	zap.L().Info("customer debt reduced",
		zap.String("customer_id", id),
		zap.String("amount_paid", domain.FormatBRL(amountPaid)),
		zap.String("new_debt", domain.FormatBRL(newDebt)),
	)
	return true, nil
}

func (l *DebtLedger) applyLegacy(ctx context.Context, id string, amountPaid decimal.Decimal) (bool, error) {
	client, err := l.legacy.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("load legacy client %s: %w", id, err)
	}
	if client == nil {
		l.logOrphan("legacy_client", id, amountPaid)
		return false, nil
	}

	newDebt := domain.SubtractFloored(client.TotalDebt, amountPaid)
	if err := l.legacy.UpdateTotalDebt(ctx, id, newDebt); err != nil {
		return false, fmt.Errorf("update legacy client %s debt: %w", id, err)
	}

	zap.L().Info("legacy client debt reduced",
		zap.String("legacy_client_id", id),
		zap.String("amount_paid", domain.FormatBRL(amountPaid)),
		zap.String("new_debt", domain.FormatBRL(newDebt)),
	)
	return true, nil
}

func (l *DebtLedger) logOrphan(kind, id string, amountPaid decimal.Decimal) {
	observability.IncrementOrphanedPayment()
	zap.L().Warn("paid boleto references a missing client, debt update skipped",
		zap.String("client_kind", kind),
		zap.String("client_id", id),
		zap.String("amount_paid", domain.FormatBRL(amountPaid)),
	)
}
