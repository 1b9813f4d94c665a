package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/oticavision/backoffice/internal/domain"
	"github.com/oticavision/backoffice/internal/gateway"
	"github.com/oticavision/backoffice/internal/models"
	"github.com/oticavision/backoffice/internal/observability"
)

// Reconciler refreshes a single payment against the bank gateway and applies
// the resulting state transition. Errors it returns are item-level: the
// orchestrator records them and moves on.
type Reconciler struct {
	payments PaymentStore
	gw       gateway.Gateway
	ledger   *DebtLedger
}

// NewReconciler creates a reconciler over the payment store, the bank gateway
// and the debt ledger.
func NewReconciler(payments PaymentStore, gw gateway.Gateway, ledger *DebtLedger) *Reconciler {
	return &Reconciler{payments: payments, gw: gw, ledger: ledger}
}

// Reconcile processes one payment, incrementing result counters as it goes.
// A gateway failure still buckets the slip as pending so the summary keeps
// accounting for every processed item.
func (r *Reconciler) Reconcile(ctx context.Context, payment *models.Payment, result *models.SyncResult) error {
	if payment.Sicredi == nil || payment.Sicredi.NossoNumero == "" {
		observability.IncrementSyncPayment("error")
		return ErrMissingNossoNumero
	}

	status, err := r.gw.CheckStatus(ctx, payment.Sicredi.NossoNumero)
	if err != nil {
		result.Summary.Pending++
		observability.IncrementSyncPayment("error")
		return fmt.Errorf("gateway status check: %w", err)
	}
	if !status.Success {
		result.Summary.Pending++
		observability.IncrementSyncPayment("error")
		return fmt.Errorf("gateway reported failure: %s", status.ErrorMessage)
	}

	classifyGatewayStatus(status.Status, &result.Summary)

	// The debt decrement runs before the status write. A failed decrement
	// leaves the slip pending so the next pass retries it; persisting first
	// would drop the slip from the batch with the debt never applied. The
	// price is a replay window: a crash between decrement and persist
	// re-applies one payment on the next pass.
	if status.Status == domain.BoletoStatusPago && status.AmountPaid.GreaterThan(decimal.Zero) {
		ref := domain.ResolveClientRef(payment.CustomerID, payment.LegacyClientID)
		applied, err := r.ledger.ApplyPaid(ctx, ref, status.AmountPaid)
		if err != nil {
			return err
		}
		if applied {
			result.UpdatedDebts++
			observability.IncrementDebtUpdate()
		}
	}

	// Persist the refreshed status so settled slips drop out of the pending
	// batch. Re-marking an unchanged PAGO slip heals the replay window above.
	changed := status.Status != payment.Sicredi.Status
	localStatus := localStatusFor(status.Status, payment.Status)
	if changed || localStatus != payment.Status {
		if err := r.payments.UpdateGatewayStatus(ctx, payment.ID, status.Status, localStatus); err != nil {
			return fmt.Errorf("persist gateway status %s: %w", status.Status, err)
		}
	}
	if changed {
		result.UpdatedPayments++
	}

	zap.L().Debug("payment reconciled",
		zap.String("payment_id", payment.ID.String()),
		zap.String("gateway_status", status.Status),
		zap.Bool("changed", changed),
	)
	return nil
}

// classifyGatewayStatus increments exactly one summary bucket. Unrecognized
// statuses count as pending.
func classifyGatewayStatus(status string, summary *models.SyncSummary) {
	switch status {
	case domain.BoletoStatusPago:
		summary.Paid++
		observability.IncrementSyncPayment("paid")
	case domain.BoletoStatusVencido:
		summary.Overdue++
		observability.IncrementSyncPayment("overdue")
	case domain.BoletoStatusCancelado:
		summary.Cancelled++
		observability.IncrementSyncPayment("cancelled")
	default:
		summary.Pending++
		observability.IncrementSyncPayment("pending")
	}
}

// localStatusFor maps a gateway status onto the local payment lifecycle.
// REGISTRADO and VENCIDO leave the local status untouched.
func localStatusFor(gatewayStatus, current string) string {
	switch gatewayStatus {
	case domain.BoletoStatusPago:
		return domain.PaymentStatusCompleted
	case domain.BoletoStatusCancelado:
		return domain.PaymentStatusCancelled
	default:
		return current
	}
}
