package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// PROFILE / IDENTITY DOMAIN TYPES
// =============================================================================

var (
	ErrProfileNotFound = &Error{Code: ENOTFOUND, Message: "Profile not found"}
	ErrInvalidSession  = &Error{Code: EUNAUTHORIZED, Message: "Invalid or expired session"}
)

// Profile is the full customer record. Identity issuance (signup, login)
// happens in an external system; this service resolves session tokens and
// reads profile fields it needs, phone above all.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is an issued bearer token tied to a customer.
type Session struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// IdentityService resolves bearer tokens into users.
type IdentityService interface {
	// ResolveToken returns the user a session token belongs to.
	// Unknown or expired tokens yield ErrInvalidSession.
	ResolveToken(ctx context.Context, token string) (*User, error)

	// GetProfile retrieves a customer's profile.
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
}
