package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/portomercado/porto/internal/domain"
)

type contextKey string

const loggerContextKey contextKey = "logger"

// WithRequestLogger injects a request-scoped logger carrying the method,
// path, request id and, once auth middleware has run, the user id.
func WithRequestLogger(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := baseLogger.With(
				"method", r.Method,
				"path", r.URL.Path,
			)

			if reqID := domain.RequestIDFromContext(r.Context()); reqID != "" {
				logger = logger.With("request_id", reqID)
			}
			if user := domain.UserFromContext(r.Context()); user != nil {
				logger = logger.With("user_id", user.ID)
			}

			ctx := context.WithValue(r.Context(), loggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger returns the request-scoped logger, falling back to slog.Default
// when the middleware has not run.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
