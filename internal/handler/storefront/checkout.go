package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/portomercado/porto/internal/domain"
	"github.com/portomercado/porto/internal/handler"
)

// CheckoutHandler handles the checkout snapshot routes.
type CheckoutHandler struct {
	checkout domain.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout domain.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type beginCheckoutRequest struct {
	AddressID       string `json:"address_id"`
	DeliveryType    string `json:"delivery_type"`
	ScheduledDate   string `json:"scheduled_date,omitempty"`
	ScheduledPeriod string `json:"scheduled_period,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty"`
}

// Begin handles POST /checkout. It freezes the cart and delivery choices
// into a single-use snapshot for the review screen.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)

	var req beginCheckoutRequest
	if err := handler.DecodeJSON(r, "checkout.begin", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		handler.ErrorResponse(w, r, domain.NewValidationError("checkout.begin", "address_id", "A delivery address is required"))
		return
	}

	snapshot, err := h.checkout.Begin(ctx, userID, domain.BeginCheckoutParams{
		AddressID:       addressID,
		DeliveryType:    domain.DeliveryType(req.DeliveryType),
		ScheduledDate:   req.ScheduledDate,
		ScheduledPeriod: domain.DeliveryPeriod(req.ScheduledPeriod),
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusCreated, snapshot)
}

// Peek handles GET /checkout. It returns the pending snapshot without
// consuming it.
func (h *CheckoutHandler) Peek(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)

	snapshot, err := h.checkout.Peek(ctx, userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, snapshot)
}

// Abandon handles DELETE /checkout, returning the customer to the editable
// cart. Abandoning with no pending snapshot succeeds.
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)

	if err := h.checkout.Abandon(ctx, userID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
