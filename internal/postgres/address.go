package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portomercado/porto/internal/domain"
)

// AddressService implements domain.AddressService using PostgreSQL.
type AddressService struct {
	pool *pgxpool.Pool
}

// Compile-time check that AddressService implements domain.AddressService.
var _ domain.AddressService = (*AddressService)(nil)

// NewAddressService creates a new PostgreSQL-backed address service.
func NewAddressService(pool *pgxpool.Pool) *AddressService {
	return &AddressService{pool: pool}
}

// ListForUser returns the customer's addresses, newest first.
func (s *AddressService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, street, number, complement, district, city, state, cep, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, domain.Internal(err, "address.list", "failed to list addresses")
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			return nil, domain.Internal(err, "address.list", "failed to scan address")
		}
		addresses = append(addresses, *addr)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "address.list", "failed to read addresses")
	}
	return addresses, nil
}

// GetOwned resolves an address and verifies it belongs to the customer.
func (s *AddressService) GetOwned(ctx context.Context, userID, addressID uuid.UUID) (*domain.Address, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, street, number, complement, district, city, state, cep, created_at
		FROM addresses
		WHERE id = $1`, addressID)

	addr, err := scanAddress(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAddressNotFound
	}
	if err != nil {
		return nil, domain.Internal(err, "address.get_owned", "failed to load address")
	}
	if addr.UserID != userID {
		return nil, domain.ErrAddressNotOwned
	}
	return addr, nil
}

// scanAddress reads one address row from either a pgx.Row or pgx.Rows.
func scanAddress(row pgx.Row) (*domain.Address, error) {
	var (
		addr       domain.Address
		complement *string
	)
	err := row.Scan(&addr.ID, &addr.UserID, &addr.Street, &addr.Number, &complement,
		&addr.District, &addr.City, &addr.State, &addr.CEP, &addr.CreatedAt)
	if err != nil {
		return nil, err
	}
	if complement != nil {
		addr.Complement = *complement
	}
	return &addr, nil
}
