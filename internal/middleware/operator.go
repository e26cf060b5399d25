package middleware

import (
	"net/http"

	"github.com/portomercado/porto/internal/domain"
)

// WithOperator promotes authenticated customers whose email is on the
// operator allow list. It never rejects a request; RequireOperator does.
// Must run after WithUser.
func WithOperator(allowList *domain.OperatorAllowList) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := domain.UserFromContext(r.Context())
			if user == nil || !allowList.Allows(user.Email) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithOperator(r.Context(), &domain.Operator{
				ID:    user.ID,
				Email: user.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOperator rejects requests without an operator in context: 401 for
// anonymous callers, 403 for customers who are not on the allow list.
// Must run after WithUser and WithOperator.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			respondUnauthorized(w, r)
			return
		}
		if !domain.IsOperator(r.Context()) {
			respondForbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
