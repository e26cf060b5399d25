package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/portomercado/porto/internal/cache"
	"github.com/portomercado/porto/internal/domain"
)

type checkoutService struct {
	store     cache.Store
	addresses domain.AddressService
	now       func() time.Time
}

// NewCheckoutService creates a checkout service. It validates the cart and
// delivery choices and manages the single-use snapshot handed to order
// submission.
func NewCheckoutService(store cache.Store, addresses domain.AddressService) domain.CheckoutService {
	return &checkoutService{
		store:     store,
		addresses: addresses,
		now:       time.Now,
	}
}

func (s *checkoutService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*domain.CartSummary, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Validate against the current subtotal before storing. An unknown
	// code must not disturb a previously applied coupon.
	if _, err := domain.CouponDiscount(code, state.Cart.SubtotalCents()); err != nil {
		return nil, err
	}

	state.CouponCode = domain.NormalizeCouponCode(code)
	if err := s.store.SetCart(ctx, userID, state); err != nil {
		return nil, fmt.Errorf("failed to save coupon: %w", err)
	}
	return summarize(state), nil
}

func (s *checkoutService) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*domain.CartSummary, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	state.CouponCode = ""
	if err := s.store.SetCart(ctx, userID, state); err != nil {
		return nil, fmt.Errorf("failed to remove coupon: %w", err)
	}
	return summarize(state), nil
}

func (s *checkoutService) Begin(ctx context.Context, userID uuid.UUID, params domain.BeginCheckoutParams) (*domain.CheckoutSnapshot, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state.Cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	if params.PaymentMethod == "" {
		params.PaymentMethod = domain.DefaultPaymentMethod
	}

	subtotal := state.Cart.SubtotalCents()
	var discount int64
	if state.CouponCode != "" {
		if d, err := domain.CouponDiscount(state.CouponCode, subtotal); err == nil {
			discount = d
		}
	}

	snap := &domain.CheckoutSnapshot{
		UserID:          userID,
		AddressID:       params.AddressID,
		DeliveryType:    params.DeliveryType,
		ScheduledDate:   params.ScheduledDate,
		ScheduledPeriod: params.ScheduledPeriod,
		PaymentMethod:   params.PaymentMethod,
		DiscountCents:   discount,
		SubtotalCents:   subtotal,
		CreatedAt:       s.now(),
	}
	if err := snap.Validate(s.now()); err != nil {
		return nil, err
	}

	if _, err := s.addresses.GetOwned(ctx, userID, params.AddressID); err != nil {
		return nil, err
	}

	if err := s.store.SetSnapshot(ctx, userID, snap); err != nil {
		return nil, fmt.Errorf("failed to store checkout snapshot: %w", err)
	}
	return snap, nil
}

func (s *checkoutService) Peek(ctx context.Context, userID uuid.UUID) (*domain.CheckoutSnapshot, error) {
	snap, err := s.store.GetSnapshot(ctx, userID)
	if errors.Is(err, cache.ErrMiss) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout snapshot: %w", err)
	}
	return snap, nil
}

func (s *checkoutService) Abandon(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.DeleteSnapshot(ctx, userID); err != nil {
		return fmt.Errorf("failed to abandon checkout: %w", err)
	}
	return nil
}

// loadState mirrors cartService.loadState; both services share the store.
func (s *checkoutService) loadState(ctx context.Context, userID uuid.UUID) (*cache.CartState, error) {
	state, err := s.store.GetCart(ctx, userID)
	if errors.Is(err, cache.ErrMiss) {
		return &cache.CartState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return state, nil
}
