// Package admin contains the operator-facing JSON handlers.
package admin

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/portomercado/porto/internal/domain"
	"github.com/portomercado/porto/internal/handler"
)

// OrderHandler handles the operator's order routes.
type OrderHandler struct {
	status domain.OrderStatusService
}

// NewOrderHandler creates a new admin order handler.
func NewOrderHandler(status domain.OrderStatusService) *OrderHandler {
	return &OrderHandler{status: status}
}

// List handles GET /admin/orders?status=pending&status=confirmed&limit=50.
// Orders across all customers, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var statuses []domain.OrderStatus
	for _, raw := range query["status"] {
		status := domain.OrderStatus(raw)
		if !status.Valid() {
			handler.ErrorResponse(w, r, domain.Invalid("order.list_all", "Unknown order status: "+raw))
			return
		}
		statuses = append(statuses, status)
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			handler.ErrorResponse(w, r, domain.Invalid("order.list_all", "Limit must be a positive number"))
			return
		}
		limit = parsed
	}

	orders, err := h.status.ListAll(r.Context(), statuses, limit)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /admin/orders/{id}/status. The transition table
// and the operator allow-list are enforced in the service, so a crafted
// request fares no better than the admin screen.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.ErrOrderNotFound)
		return
	}

	var req updateStatusRequest
	if err := handler.DecodeJSON(r, "order.update_status", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.status.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, order)
}
