package storefront

import (
	"net/http"

	"github.com/portomercado/porto/internal/domain"
	"github.com/portomercado/porto/internal/handler"
)

// ProfileHandler exposes the customer's own profile so the client can tell
// whether a phone number is on file before offering checkout.
type ProfileHandler struct {
	identity domain.IdentityService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(identity domain.IdentityService) *ProfileHandler {
	return &ProfileHandler{identity: identity}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := domain.RequireUserID(ctx)

	profile, err := h.identity.GetProfile(ctx, userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, profile)
}
