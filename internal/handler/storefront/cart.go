// Package storefront contains the customer-facing JSON handlers.
package storefront

import (
	"net/http"

	"github.com/portomercado/porto/internal/domain"
	"github.com/portomercado/porto/internal/handler"
)

// CartHandler handles the cart and coupon routes.
type CartHandler struct {
	cart     domain.CartService
	checkout domain.CheckoutService
	catalog  domain.CatalogService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart domain.CartService, checkout domain.CheckoutService, catalog domain.CatalogService) *CartHandler {
	return &CartHandler{
		cart:     cart,
		checkout: checkout,
		catalog:  catalog,
	}
}

// View handles GET /cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	userID := domain.RequireUserID(r.Context())

	summary, err := h.cart.GetSummary(r.Context(), userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, summary)
}

type addItemRequest struct {
	SKU      string `json:"sku"`
	Quantity *int   `json:"quantity"`
}

// AddItem handles POST /cart/items. An omitted quantity adds one unit. The
// product name and display price come from the catalog, never from the
// client.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)

	var req addItemRequest
	if err := handler.DecodeJSON(r, "cart.add_item", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if req.SKU == "" {
		handler.ErrorResponse(w, r, domain.Invalid("cart.add_item", "A product SKU is required"))
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		handler.ErrorResponse(w, r, domain.Invalid("cart.add_item", "Quantity must be at least 1"))
		return
	}

	products, err := h.catalog.ResolvePrices(ctx, []string{req.SKU})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	product := products[req.SKU]

	summary, err := h.cart.AddItem(ctx, userID, domain.CartItem{
		SKU:            product.SKU,
		Name:           product.Name,
		UnitPriceCents: product.PriceCents,
		Quantity:       quantity,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, summary)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity handles PATCH /cart/items/{sku}. A quantity of zero removes
// the line.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)
	sku := r.PathValue("sku")

	var req setQuantityRequest
	if err := handler.DecodeJSON(r, "cart.set_quantity", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cart.SetQuantity(ctx, userID, sku, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, summary)
}

// RemoveItem handles DELETE /cart/items/{sku}. Removing an absent SKU
// succeeds.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)
	sku := r.PathValue("sku")

	summary, err := h.cart.RemoveItem(ctx, userID, sku)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, summary)
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)

	if err := h.cart.Clear(ctx, userID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

// ApplyCoupon handles POST /cart/coupon. A new coupon replaces the previous
// one; an unknown code is rejected and the previous coupon stays applied.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)

	var req applyCouponRequest
	if err := handler.DecodeJSON(r, "checkout.apply_coupon", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.checkout.ApplyCoupon(ctx, userID, req.Code)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, summary)
}

// RemoveCoupon handles DELETE /cart/coupon.
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)

	summary, err := h.checkout.RemoveCoupon(ctx, userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, summary)
}
