package storefront

import (
	"net/http"

	"github.com/portomercado/porto/internal/domain"
	"github.com/portomercado/porto/internal/handler"
)

// AddressHandler handles the customer's address routes. Addresses are
// managed in the identity system; this surface is read only.
type AddressHandler struct {
	addresses domain.AddressService
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(addresses domain.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// List handles GET /addresses, newest first.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)

	addresses, err := h.addresses.ListForUser(ctx, userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"addresses": addresses,
	})
}
