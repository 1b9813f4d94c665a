package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/oticavision/backoffice/internal/domain"
	"github.com/oticavision/backoffice/internal/models"
)

const (
	syncBatchLimit  = 1000
	statsBatchLimit = 10000
)

// SyncService orchestrates reconciliation passes over pending boleto
// payments. A mutex serializes passes so a manual trigger cannot race a
// timer-driven one and double-apply a debt decrement.
type SyncService struct {
	payments   PaymentStore
	reconciler *Reconciler

	mu sync.Mutex
}

// NewSyncService creates the orchestrator.
func NewSyncService(payments PaymentStore, reconciler *Reconciler) *SyncService {
	return &SyncService{payments: payments, reconciler: reconciler}
}

// PerformSync reconciles every pending sicredi boleto payment, up to the
// batch limit. Item failures are collected into the result; only a failure to
// enumerate the batch is fatal.
func (s *SyncService) PerformSync(ctx context.Context) (*models.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, _, err := s.payments.List(ctx, ListPaymentsParams{
		Page:   1,
		Limit:  syncBatchLimit,
		Method: domain.PaymentMethodSicrediBoleto,
		Status: domain.PaymentStatusPending,
	})
	if err != nil {
		return nil, NewSyncError(SyncErrListFailed, fmt.Errorf("list pending boleto payments: %w", err))
	}

	result := s.runBatch(ctx, batch)
	zap.L().Info("sync pass finished",
		zap.Int("total_processed", result.TotalProcessed),
		zap.Int("updated_payments", result.UpdatedPayments),
		zap.Int("updated_debts", result.UpdatedDebts),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// SyncClientPayments runs the same algorithm restricted to one customer's
// boleto payments. clientID is opaque; the store decides what matches it.
func (s *SyncService) SyncClientPayments(ctx context.Context, clientID string) (*models.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, _, err := s.payments.List(ctx, ListPaymentsParams{
		Page:       1,
		Limit:      syncBatchLimit,
		Method:     domain.PaymentMethodSicrediBoleto,
		Status:     domain.PaymentStatusPending,
		CustomerID: clientID,
	})
	if err != nil {
		return nil, NewSyncError(SyncErrClientListFailed, fmt.Errorf("list payments for client %s: %w", clientID, err))
	}

	result := s.runBatch(ctx, batch)
	zap.L().Info("client sync pass finished",
		zap.String("client_id", clientID),
		zap.Int("total_processed", result.TotalProcessed),
		zap.Int("updated_debts", result.UpdatedDebts),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// runBatch drives the reconciler over the batch strictly sequentially. One
// bad gateway response must never abort the rest of the batch.
func (s *SyncService) runBatch(ctx context.Context, batch []models.Payment) *models.SyncResult {
	result := &models.SyncResult{
		TotalProcessed: len(batch),
		Errors:         []models.SyncItemError{},
	}

	for i := range batch {
		payment := &batch[i]
		if err := s.reconciler.Reconcile(ctx, payment, result); err != nil {
			result.Errors = append(result.Errors, models.SyncItemError{
				PaymentID: payment.ID.String(),
				Error:     err.Error(),
			})
			zap.L().Warn("payment reconciliation failed",
				zap.String("payment_id", payment.ID.String()),
				zap.Error(err),
			)
		}
	}
	return result
}

// GetSyncStats buckets all gateway-tracked payments by their last known
// gateway status. Pure read; nothing is reconciled or mutated.
func (s *SyncService) GetSyncStats(ctx context.Context) (*models.SyncStats, error) {
	payments, total, err := s.payments.List(ctx, ListPaymentsParams{
		Page:   1,
		Limit:  statsBatchLimit,
		Method: domain.PaymentMethodSicrediBoleto,
	})
	if err != nil {
		return nil, NewSyncError(SyncErrListFailed, fmt.Errorf("list boleto payments for stats: %w", err))
	}

	stats := &models.SyncStats{TotalSicrediPayments: total}
	for i := range payments {
		status := ""
		if payments[i].Sicredi != nil {
			status = payments[i].Sicredi.Status
		}
		switch status {
		case domain.BoletoStatusPago:
			stats.PaidPayments++
		case domain.BoletoStatusVencido:
			stats.OverduePayments++
		case domain.BoletoStatusCancelado:
			stats.CancelledPayments++
		default:
			stats.PendingPayments++
		}
	}
	return stats, nil
}
