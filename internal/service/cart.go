package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/portomercado/porto/internal/cache"
	"github.com/portomercado/porto/internal/domain"
)

type cartService struct {
	store cache.Store
}

// NewCartService creates a cart service over the given ephemeral store.
func NewCartService(store cache.Store) domain.CartService {
	return &cartService{store: store}
}

// loadState returns the customer's cart state, treating a miss as an
// empty cart.
func (s *cartService) loadState(ctx context.Context, userID uuid.UUID) (*cache.CartState, error) {
	state, err := s.store.GetCart(ctx, userID)
	if errors.Is(err, cache.ErrMiss) {
		return &cache.CartState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return state, nil
}

// saveState persists the cart and invalidates any pending checkout
// snapshot: the snapshot described a cart that no longer exists.
func (s *cartService) saveState(ctx context.Context, userID uuid.UUID, state *cache.CartState) error {
	if err := s.store.SetCart(ctx, userID, state); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if err := s.store.DeleteSnapshot(ctx, userID); err != nil {
		return fmt.Errorf("failed to invalidate checkout snapshot: %w", err)
	}
	return nil
}

// summarize recomputes the coupon discount from the stored code so the
// summary always reflects the current subtotal. A coupon the cart has
// shrunk past simply clamps lower.
func summarize(state *cache.CartState) *domain.CartSummary {
	summary := state.Cart.Summarize()
	if state.CouponCode != "" {
		if discount, err := domain.CouponDiscount(state.CouponCode, summary.SubtotalCents); err == nil {
			summary.CouponCode = domain.NormalizeCouponCode(state.CouponCode)
			summary.DiscountCents = discount
		}
	}
	return summary
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, item domain.CartItem) (*domain.CartSummary, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := state.Cart.Add(item); err != nil {
		return nil, err
	}
	if err := s.saveState(ctx, userID, state); err != nil {
		return nil, err
	}
	return summarize(state), nil
}

func (s *cartService) SetQuantity(ctx context.Context, userID uuid.UUID, sku string, quantity int) (*domain.CartSummary, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := state.Cart.SetQuantity(sku, quantity); err != nil {
		return nil, err
	}
	if err := s.saveState(ctx, userID, state); err != nil {
		return nil, err
	}
	return summarize(state), nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, sku string) (*domain.CartSummary, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	state.Cart.Remove(sku)
	if err := s.saveState(ctx, userID, state); err != nil {
		return nil, err
	}
	return summarize(state), nil
}

func (s *cartService) GetSummary(ctx context.Context, userID uuid.UUID) (*domain.CartSummary, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(state), nil
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.DeleteCart(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	if err := s.store.DeleteSnapshot(ctx, userID); err != nil {
		return fmt.Errorf("failed to invalidate checkout snapshot: %w", err)
	}
	return nil
}
