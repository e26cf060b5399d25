// Package cache stores the per-customer cart and the single-use checkout
// snapshot. Both are ephemeral by design: the durable record of a purchase
// is the order row, written at submission.
package cache

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/portomercado/porto/internal/domain"
)

// ErrMiss is returned when no value exists for the key.
var ErrMiss = errors.New("cache miss")

// CartState is the stored cart plus any applied coupon code. The discount
// is recomputed from the code whenever the cart changes, so only the code
// is persisted.
type CartState struct {
	Cart       domain.Cart `json:"cart"`
	CouponCode string      `json:"coupon_code,omitempty"`
}

// Store persists cart state and checkout snapshots per customer.
type Store interface {
	// GetCart returns the customer's cart state, ErrMiss if none.
	GetCart(ctx context.Context, userID uuid.UUID) (*CartState, error)

	// SetCart replaces the customer's cart state.
	SetCart(ctx context.Context, userID uuid.UUID, state *CartState) error

	// DeleteCart drops the customer's cart state.
	DeleteCart(ctx context.Context, userID uuid.UUID) error

	// GetSnapshot returns the pending checkout snapshot, ErrMiss if none.
	GetSnapshot(ctx context.Context, userID uuid.UUID) (*domain.CheckoutSnapshot, error)

	// SetSnapshot stores the checkout snapshot, replacing any pending one.
	SetSnapshot(ctx context.Context, userID uuid.UUID, snap *domain.CheckoutSnapshot) error

	// ConsumeSnapshot atomically fetches and deletes the pending snapshot,
	// so a snapshot can back at most one submission. ErrMiss if none.
	ConsumeSnapshot(ctx context.Context, userID uuid.UUID) (*domain.CheckoutSnapshot, error)

	// DeleteSnapshot drops the pending snapshot if any.
	DeleteSnapshot(ctx context.Context, userID uuid.UUID) error
}
