package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oticavision/backoffice/internal/models"
	"github.com/oticavision/backoffice/internal/observability"
)

// Auto-sync interval bounds in minutes.
const (
	DefaultIntervalMinutes = 30
	MinIntervalMinutes     = 5
	MaxIntervalMinutes     = 1440
)

// ErrIntervalOutOfRange is returned by Start for intervals outside [5,1440].
var ErrIntervalOutOfRange = errors.New("sync interval must be between 5 and 1440 minutes")

// SyncRunner is the slice of the orchestrator the scheduler drives.
type SyncRunner interface {
	PerformSync(ctx context.Context) (*models.SyncResult, error)
}

// SyncScheduler owns the single recurring timer that triggers reconciliation
// passes. It is an injected instance, not a process-wide singleton, so tests
// can run independent sessions. Session state is lost on restart: a restarted
// process starts with sync stopped.
type SyncScheduler struct {
	runner SyncRunner

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}

	// tick overrides the minute-based interval when non-zero (tests only).
	tick time.Duration
}

// NewSyncScheduler creates a stopped scheduler.
func NewSyncScheduler(runner SyncRunner) *SyncScheduler {
	return &SyncScheduler{runner: runner}
}

// Start begins auto-sync at the given interval in minutes (0 means the
// default of 30). Starting an already-running scheduler is a logged no-op.
// One pass fires immediately, fire-and-forget; subsequent ticks each trigger
// an independent pass and do not wait for the prior one (the orchestrator's
// own mutex serializes overlapping passes).
func (s *SyncScheduler) Start(intervalMinutes int) error {
	if intervalMinutes == 0 {
		intervalMinutes = DefaultIntervalMinutes
	}
	if intervalMinutes < MinIntervalMinutes || intervalMinutes > MaxIntervalMinutes {
		return ErrIntervalOutOfRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		zap.L().Info("auto sync already running, start ignored")
		return nil
	}

	interval := time.Duration(intervalMinutes) * time.Minute
	if s.tick > 0 {
		interval = s.tick
	}

	s.running = true
	s.stopCh = make(chan struct{})
	observability.SetSyncRunning(true)
	zap.L().Info("auto sync started", zap.Duration("interval", interval))

	go s.runOnce("startup")
	go s.loop(interval, s.stopCh)
	return nil
}

// Stop cancels the recurring timer. Stopping a stopped scheduler is a logged
// no-op. An in-flight pass is not interrupted; only future ticks are
// prevented.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		zap.L().Info("auto sync not running, stop ignored")
		return
	}
	close(s.stopCh)
	s.running = false
	observability.SetSyncRunning(false)
	zap.L().Info("auto sync stopped")
}

// IsRunning reports whether the recurring timer is armed.
func (s *SyncScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *SyncScheduler) loop(interval time.Duration, stopCh chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			go s.runOnce("scheduled")
		}
	}
}

func (s *SyncScheduler) runOnce(trigger string) {
	result, err := s.runner.PerformSync(context.Background())
	if err != nil {
		observability.IncrementSyncRun(trigger, "failed")
		zap.L().Error("scheduled sync pass failed", zap.String("trigger", trigger), zap.Error(err))
		return
	}
	observability.IncrementSyncRun(trigger, "success")
	zap.L().Info("scheduled sync pass completed",
		zap.String("trigger", trigger),
		zap.Int("total_processed", result.TotalProcessed),
		zap.Int("updated_payments", result.UpdatedPayments),
		zap.Int("updated_debts", result.UpdatedDebts),
		zap.Int("errors", len(result.Errors)),
	)
}
