package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/oticavision/backoffice/internal/service"
	"github.com/oticavision/backoffice/internal/worker"
)

// SyncHandler exposes the reconciliation core to operators: scheduler
// controls, manual passes and stats.
type SyncHandler struct {
	scheduler *worker.SyncScheduler
	syncSvc   *service.SyncService
}

func NewSyncHandler(scheduler *worker.SyncScheduler, syncSvc *service.SyncService) *SyncHandler {
	return &SyncHandler{scheduler: scheduler, syncSvc: syncSvc}
}

type startSyncRequest struct {
	IntervalMinutes int `json:"interval_minutes"`
}

// Start handles POST /v1/sync/start. Starting an already-running scheduler is
// a no-op that still returns 200.
func (h *SyncHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSyncRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
			return
		}
	}

	if err := h.scheduler.Start(req.IntervalMinutes); err != nil {
		if errors.Is(err, worker.ErrIntervalOutOfRange) {
			RespondError(w, r, http.StatusBadRequest, "sync/invalid-interval", err.Error())
			return
		}
		zap.L().Error("start auto sync failed", zap.Error(err))
		RespondError(w, r, http.StatusInternalServerError, "sync/start-failed", "Failed to start auto sync")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]any{"running": h.scheduler.IsRunning()})
}

// Stop handles POST /v1/sync/stop. Idempotent.
func (h *SyncHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.scheduler.Stop()
	RespondJSON(w, http.StatusOK, map[string]any{"running": h.scheduler.IsRunning()})
}

// Status handles GET /v1/sync/status.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]any{"running": h.scheduler.IsRunning()})
}

// Stats handles GET /v1/sync/stats.
func (h *SyncHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.syncSvc.GetSyncStats(r.Context())
	if err != nil {
		zap.L().Error("sync stats failed", zap.Error(err))
		RespondError(w, r, http.StatusBadGateway, syncErrorType(err), "Failed to compute sync stats")
		return
	}
	RespondJSON(w, http.StatusOK, stats)
}

// Run handles POST /v1/sync/run: one manual reconciliation pass. Item-level
// failures appear inside the result's errors array; only a pass-level failure
// produces an error status.
func (h *SyncHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.syncSvc.PerformSync(r.Context())
	if err != nil {
		zap.L().Error("manual sync pass failed", zap.Error(err))
		RespondError(w, r, http.StatusBadGateway, syncErrorType(err), "Reconciliation pass failed")
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// RunClient handles POST /v1/sync/clients/{id}/run. The client id is opaque;
// it is passed through to the payment store unvalidated.
func (h *SyncHandler) RunClient(w http.ResponseWriter, r *http.Request) {
	clientID := strings.TrimSpace(chi.URLParam(r, "id"))
	if clientID == "" {
		RespondError(w, r, http.StatusBadRequest, "request/missing-client-id", "client id is required")
		return
	}

	result, err := h.syncSvc.SyncClientPayments(r.Context(), clientID)
	if err != nil {
		zap.L().Error("client sync pass failed", zap.Error(err), zap.String("client_id", clientID))
		RespondError(w, r, http.StatusBadGateway, syncErrorType(err), "Client reconciliation pass failed")
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

func syncErrorType(err error) string {
	var syncErr *service.SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Code
	}
	return "sync/internal"
}
