// Package domain provides core business types and context helpers for Porto.
//
// Context helpers centralize request-scoped data access, giving services a
// single way to recover the authenticated user or operator from a request.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// userContextKey stores user information in context.
	userContextKey contextKey = iota

	// operatorContextKey stores operator (admin user) information in context.
	operatorContextKey

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// User represents user information stored in context.
// This is a minimal struct for context storage - the full profile
// record can be fetched from the database if needed.
type User struct {
	ID    uuid.UUID
	Email string
	Phone string
}

// HasPhone reports whether the user profile carries a contact phone.
// Order submission requires one so the courier can reach the customer.
func (u *User) HasPhone() bool {
	return u != nil && u.Phone != ""
}

// Operator represents an allow-listed staff identity stored in context.
// Operators drive order status through the admin interface.
type Operator struct {
	ID    uuid.UUID
	Email string
}

// --- User Context Helpers ---

// NewContextWithUser returns a new context with the user attached.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the user from context.
// Returns nil if no user is present.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// UserIDFromContext retrieves the user ID from context.
// Returns uuid.Nil if no user is present.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return uuid.Nil
}

// RequireUserID retrieves the user ID from context, panicking if not present.
// Use this in service layers where an authenticated user is required.
// The panic will be caught by recovery middleware in HTTP handlers.
func RequireUserID(ctx context.Context) uuid.UUID {
	id := UserIDFromContext(ctx)
	if id == uuid.Nil {
		panic("user_id required in context but not found")
	}
	return id
}

// MustUser retrieves the user from context, panicking if not present.
func MustUser(ctx context.Context) *User {
	user := UserFromContext(ctx)
	if user == nil {
		panic("user required in context but not found")
	}
	return user
}

// --- Operator Context Helpers ---

// NewContextWithOperator returns a new context with the operator attached.
func NewContextWithOperator(ctx context.Context, operator *Operator) context.Context {
	return context.WithValue(ctx, operatorContextKey, operator)
}

// OperatorFromContext retrieves the operator from context.
// Returns nil if no operator is present.
func OperatorFromContext(ctx context.Context) *Operator {
	operator, _ := ctx.Value(operatorContextKey).(*Operator)
	return operator
}

// RequireOperator retrieves the operator from context, panicking if not present.
func RequireOperator(ctx context.Context) *Operator {
	operator := OperatorFromContext(ctx)
	if operator == nil {
		panic("operator required in context but not found")
	}
	return operator
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}

// --- Convenience Helpers ---

// IsAuthenticated returns true if there is a user in context.
func IsAuthenticated(ctx context.Context) bool {
	return UserFromContext(ctx) != nil
}

// IsOperator returns true if there is an operator in context.
func IsOperator(ctx context.Context) bool {
	return OperatorFromContext(ctx) != nil
}
