package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/portomercado/porto/internal/cache"
	"github.com/portomercado/porto/internal/domain"
)

// mockAddressService returns a fixed address for the owning user and
// rejects everyone else.
type mockAddressService struct {
	address domain.Address
	err     error
}

func (m *mockAddressService) ListForUser(_ context.Context, _ uuid.UUID) ([]domain.Address, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Address{m.address}, nil
}

func (m *mockAddressService) GetOwned(_ context.Context, userID, addressID uuid.UUID) (*domain.Address, error) {
	if m.err != nil {
		return nil, m.err
	}
	if addressID != m.address.ID {
		return nil, domain.ErrAddressNotFound
	}
	if userID != m.address.UserID {
		return nil, domain.ErrAddressNotOwned
	}
	addr := m.address
	return &addr, nil
}

type checkoutFixture struct {
	store     *cache.MemoryStore
	carts     domain.CartService
	checkout  domain.CheckoutService
	userID    uuid.UUID
	addressID uuid.UUID
}

func makeCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	store := cache.NewMemoryStore()
	userID := uuid.New()
	addressID := uuid.New()
	addresses := &mockAddressService{
		address: domain.Address{ID: addressID, UserID: userID, Street: "Rua A", Number: "1"},
	}
	return &checkoutFixture{
		store:     store,
		carts:     NewCartService(store),
		checkout:  NewCheckoutService(store, addresses),
		userID:    userID,
		addressID: addressID,
	}
}

func (f *checkoutFixture) fillCart(t *testing.T) {
	t.Helper()
	_, err := f.carts.AddItem(context.Background(), f.userID, makeTestCartItem("WATER-20L", 1500, 2))
	assert.NoError(t, err)
}

func TestCheckoutService_ApplyCoupon(t *testing.T) {
	ctx := context.Background()

	t.Run("valid coupon discounts and normalizes", func(t *testing.T) {
		f := makeCheckoutFixture(t)
		f.fillCart(t)

		summary, err := f.checkout.ApplyCoupon(ctx, f.userID, "  porto10 ")
		assert.NoError(t, err)
		assert.Equal(t, "PORTO10", summary.CouponCode)
		assert.Equal(t, int64(1000), summary.DiscountCents)
	})

	t.Run("unknown coupon leaves previous discount untouched", func(t *testing.T) {
		f := makeCheckoutFixture(t)
		f.fillCart(t)

		_, err := f.checkout.ApplyCoupon(ctx, f.userID, "PORTO10")
		assert.NoError(t, err)

		_, err = f.checkout.ApplyCoupon(ctx, f.userID, "BOGUS")
		assert.True(t, errors.Is(err, domain.ErrUnknownCoupon))

		summary, err := f.carts.GetSummary(ctx, f.userID)
		assert.NoError(t, err)
		assert.Equal(t, "PORTO10", summary.CouponCode)
		assert.Equal(t, int64(1000), summary.DiscountCents)
	})

	t.Run("reapplying replaces rather than stacks", func(t *testing.T) {
		f := makeCheckoutFixture(t)
		f.fillCart(t)

		_, err := f.checkout.ApplyCoupon(ctx, f.userID, "PORTO10")
		assert.NoError(t, err)
		summary, err := f.checkout.ApplyCoupon(ctx, f.userID, "porto10")
		assert.NoError(t, err)
		assert.Equal(t, int64(1000), summary.DiscountCents)
	})

	t.Run("remove coupon", func(t *testing.T) {
		f := makeCheckoutFixture(t)
		f.fillCart(t)

		_, err := f.checkout.ApplyCoupon(ctx, f.userID, "PORTO10")
		assert.NoError(t, err)
		summary, err := f.checkout.RemoveCoupon(ctx, f.userID)
		assert.NoError(t, err)
		assert.Empty(t, summary.CouponCode)
		assert.Zero(t, summary.DiscountCents)
	})
}

func TestCheckoutService_Begin(t *testing.T) {
	ctx := context.Background()

	t.Run("regular delivery builds snapshot", func(t *testing.T) {
		f := makeCheckoutFixture(t)
		f.fillCart(t)

		snap, err := f.checkout.Begin(ctx, f.userID, domain.BeginCheckoutParams{
			AddressID:    f.addressID,
			DeliveryType: domain.DeliveryRegular,
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.DefaultPaymentMethod, snap.PaymentMethod)
		assert.Equal(t, int64(3000), snap.SubtotalCents)
		assert.Zero(t, snap.DiscountCents)

		peeked, err := f.checkout.Peek(ctx, f.userID)
		assert.NoError(t, err)
		assert.Equal(t, snap.AddressID, peeked.AddressID)
	})

	t.Run("captures coupon discount", func(t *testing.T) {
		f := makeCheckoutFixture(t)
		f.fillCart(t)
		_, err := f.checkout.ApplyCoupon(ctx, f.userID, "PORTO10")
		assert.NoError(t, err)

		snap, err := f.checkout.Begin(ctx, f.userID, domain.BeginCheckoutParams{
			AddressID:     f.addressID,
			DeliveryType:  domain.DeliveryRegular,
			PaymentMethod: domain.PaymentPix,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(1000), snap.DiscountCents)
		assert.Equal(t, domain.PaymentPix, snap.PaymentMethod)
	})

	t.Run("empty cart rejected", func(t *testing.T) {
		f := makeCheckoutFixture(t)
		_, err := f.checkout.Begin(ctx, f.userID, domain.BeginCheckoutParams{
			AddressID:    f.addressID,
			DeliveryType: domain.DeliveryRegular,
		})
		assert.True(t, errors.Is(err, domain.ErrEmptyCart))
	})

	t.Run("scheduled without period rejected", func(t *testing.T) {
		f := makeCheckoutFixture(t)
		f.fillCart(t)

		date := time.Now().Add(24 * time.Hour).Format(domain.ScheduledDateLayout)
		_, err := f.checkout.Begin(ctx, f.userID, domain.BeginCheckoutParams{
			AddressID:     f.addressID,
			DeliveryType:  domain.DeliveryScheduled,
			ScheduledDate: date,
		})
		assert.True(t, domain.IsValidationError(err))

		// nothing stored
		_, err = f.checkout.Peek(ctx, f.userID)
		assert.True(t, errors.Is(err, domain.ErrSnapshotNotFound))
	})

	t.Run("scheduled with date and period accepted", func(t *testing.T) {
		f := makeCheckoutFixture(t)
		f.fillCart(t)

		date := time.Now().Add(24 * time.Hour).Format(domain.ScheduledDateLayout)
		snap, err := f.checkout.Begin(ctx, f.userID, domain.BeginCheckoutParams{
			AddressID:       f.addressID,
			DeliveryType:    domain.DeliveryScheduled,
			ScheduledDate:   date,
			ScheduledPeriod: domain.PeriodMorning,
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.PeriodMorning, snap.ScheduledPeriod)
	})

	t.Run("foreign address rejected", func(t *testing.T) {
		f := makeCheckoutFixture(t)
		f.fillCart(t)

		_, err := f.checkout.Begin(ctx, f.userID, domain.BeginCheckoutParams{
			AddressID:    uuid.New(),
			DeliveryType: domain.DeliveryRegular,
		})
		assert.True(t, errors.Is(err, domain.ErrAddressNotFound))
	})
}

func TestCheckoutService_Abandon(t *testing.T) {
	ctx := context.Background()
	f := makeCheckoutFixture(t)
	f.fillCart(t)

	_, err := f.checkout.Begin(ctx, f.userID, domain.BeginCheckoutParams{
		AddressID:    f.addressID,
		DeliveryType: domain.DeliveryRegular,
	})
	assert.NoError(t, err)

	assert.NoError(t, f.checkout.Abandon(ctx, f.userID))

	_, err = f.checkout.Peek(ctx, f.userID)
	assert.True(t, errors.Is(err, domain.ErrSnapshotNotFound))

	// abandoning twice is harmless
	assert.NoError(t, f.checkout.Abandon(ctx, f.userID))
}

func TestCheckoutService_CartEditInvalidatesSnapshot(t *testing.T) {
	ctx := context.Background()
	f := makeCheckoutFixture(t)
	f.fillCart(t)

	_, err := f.checkout.Begin(ctx, f.userID, domain.BeginCheckoutParams{
		AddressID:    f.addressID,
		DeliveryType: domain.DeliveryRegular,
	})
	assert.NoError(t, err)

	_, err = f.carts.AddItem(ctx, f.userID, makeTestCartItem("GAS-13KG", 11000, 1))
	assert.NoError(t, err)

	_, err = f.checkout.Peek(ctx, f.userID)
	assert.True(t, errors.Is(err, domain.ErrSnapshotNotFound))
}
