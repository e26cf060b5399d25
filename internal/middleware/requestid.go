package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/portomercado/porto/internal/domain"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns each request an identifier and echoes it back in the
// response headers. An incoming X-Request-ID is kept so traces can span the
// proxy in front of the service.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := domain.NewContextWithRequestID(r.Context(), requestID)
		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
