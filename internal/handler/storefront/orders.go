package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/portomercado/porto/internal/domain"
	"github.com/portomercado/porto/internal/handler"
)

// OrderHandler handles the customer's order routes.
type OrderHandler struct {
	orders domain.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Submit handles POST /orders. It consumes the pending checkout snapshot
// and turns the cart into an order.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)

	detail, err := h.orders.Submit(ctx, userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusCreated, detail)
}

// List handles GET /orders?scope=active|history. Without a scope it returns
// all of the customer's orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)

	var statuses []domain.OrderStatus
	switch scope := r.URL.Query().Get("scope"); scope {
	case "":
	case "active":
		statuses = domain.ActiveStatuses
	case "history":
		statuses = domain.HistoryStatuses
	default:
		handler.ErrorResponse(w, r, domain.Invalid("order.list", "Scope must be active or history"))
		return
	}

	orders, err := h.orders.List(ctx, userID, statuses)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}

// Get handles GET /orders/{id} with items and delivery address.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.ErrOrderNotFound)
		return
	}

	detail, err := h.orders.Get(ctx, userID, orderID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, detail)
}
