package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portomercado/porto/internal/domain"
)

// IdentityService implements domain.IdentityService using PostgreSQL.
// Accounts and tokens are issued elsewhere; this service only resolves
// and reads them.
type IdentityService struct {
	pool *pgxpool.Pool
}

// Compile-time check that IdentityService implements domain.IdentityService.
var _ domain.IdentityService = (*IdentityService)(nil)

// NewIdentityService creates a new PostgreSQL-backed identity service.
func NewIdentityService(pool *pgxpool.Pool) *IdentityService {
	return &IdentityService{pool: pool}
}

// ResolveToken returns the user a bearer token belongs to.
func (s *IdentityService) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	var (
		user      domain.User
		name      *string
		phone     *string
		expiresAt time.Time
	)
	err := s.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.name, u.phone, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1`, token).Scan(&user.ID, &user.Email, &name, &phone, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInvalidSession
	}
	if err != nil {
		return nil, domain.Internal(err, "identity.resolve_token", "failed to resolve session")
	}

	if time.Now().After(expiresAt) {
		return nil, domain.ErrInvalidSession
	}
	if phone != nil {
		user.Phone = *phone
	}
	return &user, nil
}

// GetProfile retrieves a customer's profile record.
func (s *IdentityService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var (
		profile domain.Profile
		name    *string
		phone   *string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, name, phone, created_at, updated_at
		FROM users
		WHERE id = $1`, userID).Scan(&profile.ID, &profile.Email, &name, &phone, &profile.CreatedAt, &profile.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, domain.Internal(err, "identity.get_profile", "failed to load profile")
	}

	if name != nil {
		profile.Name = *name
	}
	if phone != nil {
		profile.Phone = *phone
	}
	return &profile, nil
}
