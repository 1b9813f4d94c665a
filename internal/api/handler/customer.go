package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/oticavision/backoffice/internal/service"
)

// CustomerHandler serves read-only customer and legacy-client lookups.
type CustomerHandler struct {
	customers service.CustomerStore
	legacy    service.LegacyClientStore
}

func NewCustomerHandler(customers service.CustomerStore, legacy service.LegacyClientStore) *CustomerHandler {
	return &CustomerHandler{customers: customers, legacy: legacy}
}

// GetCustomer handles GET /v1/customers/{id}.
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		RespondError(w, r, http.StatusBadRequest, "request/missing-customer-id", "customer id is required")
		return
	}

	customer, err := h.customers.Get(r.Context(), id)
	if err != nil {
		zap.L().Error("get customer failed", zap.Error(err), zap.String("customer_id", id))
		RespondError(w, r, http.StatusInternalServerError, "customer/read-failed", "Failed to get customer")
		return
	}
	if customer == nil {
		RespondError(w, r, http.StatusNotFound, "customer/not-found", "Customer not found")
		return
	}
	RespondJSON(w, http.StatusOK, customer)
}

// GetLegacyClient handles GET /v1/legacy-clients/{id}.
func (h *CustomerHandler) GetLegacyClient(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		RespondError(w, r, http.StatusBadRequest, "request/missing-client-id", "legacy client id is required")
		return
	}

	client, err := h.legacy.Get(r.Context(), id)
	if err != nil {
		zap.L().Error("get legacy client failed", zap.Error(err), zap.String("legacy_client_id", id))
		RespondError(w, r, http.StatusInternalServerError, "legacy-client/read-failed", "Failed to get legacy client")
		return
	}
	if client == nil {
		RespondError(w, r, http.StatusNotFound, "legacy-client/not-found", "Legacy client not found")
		return
	}
	RespondJSON(w, http.StatusOK, client)
}
