package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/oticavision/backoffice/internal/service"
)

// PaymentHandler serves read-only payment listings for the web front end.
type PaymentHandler struct {
	payments service.PaymentStore
}

func NewPaymentHandler(payments service.PaymentStore) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// List handles GET /v1/payments with optional method, status, customer_id,
// page and limit query parameters.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	params := service.ListPaymentsParams{
		Page:       1,
		Limit:      50,
		Method:     strings.TrimSpace(r.URL.Query().Get("method")),
		Status:     strings.TrimSpace(r.URL.Query().Get("status")),
		CustomerID: strings.TrimSpace(r.URL.Query().Get("customer_id")),
	}
	if v := strings.TrimSpace(r.URL.Query().Get("page")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			RespondError(w, r, http.StatusBadRequest, "request/invalid-page", "page must be a positive integer")
			return
		}
		params.Page = parsed
	}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 500 {
			RespondError(w, r, http.StatusBadRequest, "request/invalid-limit", "limit must be between 1 and 500")
			return
		}
		params.Limit = parsed
	}

	payments, total, err := h.payments.List(r.Context(), params)
	if err != nil {
		zap.L().Error("list payments failed", zap.Error(err))
		RespondError(w, r, http.StatusInternalServerError, "payment/list-failed", "Failed to list payments")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"items": payments,
		"page":  params.Page,
		"limit": params.Limit,
		"total": total,
	})
}
