package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/portomercado/porto/internal/domain"
)

// WithUser resolves the Authorization bearer token and adds the customer to
// the request context. This middleware is optional: requests without a valid
// token continue anonymously and RequireAuth decides later.
func WithUser(identity domain.IdentityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := identity.ResolveToken(r.Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrInvalidSession) {
					GetLogger(r.Context()).Warn("auth: failed to resolve session token",
						"error", err,
						"path", r.URL.Path,
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that did not present a valid session token.
// Must run after WithUser.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			respondUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
