package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/portomercado/porto/internal/domain"
	"github.com/portomercado/porto/internal/middleware"
)

// ErrorBody is the JSON envelope for error responses.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondJSON writes v as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// ErrorResponse maps a domain error onto the HTTP response and logs it.
// Validation errors carry their per-field messages in the body.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	fields := domain.GetValidationFields(err)
	if len(fields) > 0 {
		code = domain.EINVALID
		message = "One or more fields are invalid"
	}
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}

	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	body := ErrorBody{Code: code, Message: message}
	if len(fields) > 0 {
		body.Fields = fields
	}

	RespondJSON(w, status, map[string]ErrorBody{"error": body})
}

// DecodeJSON decodes the request body into dst.
func DecodeJSON(r *http.Request, op string, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid(op, "Request body is required")
		}
		return domain.Invalid(op, "Request body is not valid JSON")
	}
	return nil
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EPRECONDITION:
		return http.StatusUnprocessableEntity
	case domain.EINTERNAL:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
