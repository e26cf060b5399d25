package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/portomercado/porto/internal/cache"
	"github.com/portomercado/porto/internal/domain"
)

// OrderStore is the durable storage the order services need.
// *postgres.OrderStore satisfies it.
type OrderStore interface {
	CreateOrderWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)
	ListForUser(ctx context.Context, userID uuid.UUID, statuses []domain.OrderStatus) ([]domain.Order, error)
	ListAll(ctx context.Context, statuses []domain.OrderStatus, limit int) ([]domain.AdminOrder, error)
	TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) (*domain.Order, error)
}

// SubmissionMetrics records submission outcomes. *telemetry.BusinessMetrics
// satisfies it; tests pass nil-safe fakes.
type SubmissionMetrics interface {
	OrderSubmitted(paymentMethod string, totalCents int64)
	OrderSubmissionFailed(reason string)
}

type orderService struct {
	store     cache.Store
	orders    OrderStore
	catalog   domain.CatalogService
	addresses domain.AddressService
	identity  domain.IdentityService
	metrics   SubmissionMetrics
	logger    *slog.Logger
	now       func() time.Time

	// inFlight guards against double submission from the same customer;
	// the snapshot GETDEL closes the cross-process race.
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewOrderService wires the submission pipeline.
func NewOrderService(
	store cache.Store,
	orders OrderStore,
	catalog domain.CatalogService,
	addresses domain.AddressService,
	identity domain.IdentityService,
	metrics SubmissionMetrics,
	logger *slog.Logger,
) domain.OrderService {
	return &orderService{
		store:     store,
		orders:    orders,
		catalog:   catalog,
		addresses: addresses,
		identity:  identity,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		inFlight:  make(map[uuid.UUID]struct{}),
	}
}

// Submit converts the pending checkout snapshot and the cart into an order.
//
// The pipeline, in order:
//  1. take the per-customer in-flight slot
//  2. read the snapshot without consuming it
//  3. load the cart and check the phone precondition
//  4. re-validate the snapshot and address ownership
//  5. resolve prices from the catalog in one batch
//  6. claim the snapshot (single use), then write order + items in one
//     transaction; a failed write puts the snapshot back
//  7. clear the cart (best effort)
//
// Failures before the claim leave cart and snapshot untouched, so the
// customer retries without redoing checkout. Prices resolve before any row
// is written, so a failed lookup leaves no trace in the orders table.
func (s *orderService) Submit(ctx context.Context, userID uuid.UUID) (*domain.OrderDetail, error) {
	if !s.acquire(userID) {
		return nil, domain.ErrSubmissionInFlight
	}
	defer s.release(userID)

	snap, err := s.store.GetSnapshot(ctx, userID)
	if errors.Is(err, cache.ErrMiss) {
		s.fail("snapshot_missing")
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		s.fail("snapshot_error")
		return nil, fmt.Errorf("failed to load checkout snapshot: %w", err)
	}

	state, err := s.store.GetCart(ctx, userID)
	if errors.Is(err, cache.ErrMiss) || (err == nil && state.Cart.IsEmpty()) {
		s.fail("empty_cart")
		return nil, domain.ErrEmptyCart
	}
	if err != nil {
		s.fail("cart_error")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	profile, err := s.identity.GetProfile(ctx, userID)
	if err != nil {
		s.fail("profile_error")
		return nil, err
	}
	if profile.Phone == "" {
		s.fail("phone_missing")
		return nil, domain.ErrPhoneRequired
	}

	if err := snap.Validate(s.now()); err != nil {
		s.fail("snapshot_invalid")
		return nil, err
	}
	address, err := s.addresses.GetOwned(ctx, userID, snap.AddressID)
	if err != nil {
		s.fail("address_error")
		return nil, err
	}

	// Authoritative prices come from the catalog, not the cart display
	// copies. A SKU that no longer resolves aborts the whole submission.
	products, err := s.catalog.ResolvePrices(ctx, state.Cart.SKUs())
	if err != nil {
		s.fail("price_resolution")
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(state.Cart.Items))
	var subtotal int64
	for _, line := range state.Cart.Items {
		product := products[line.SKU]
		items = append(items, domain.OrderItem{
			ProductID:      product.ID,
			SKU:            product.SKU,
			Name:           product.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: product.PriceCents,
		})
		subtotal += product.PriceCents * int64(line.Quantity)
	}

	discount := domain.ClampDiscount(snap.DiscountCents, subtotal)
	order := &domain.Order{
		UserID:          userID,
		AddressID:       snap.AddressID,
		Status:          domain.StatusPending,
		DeliveryType:    snap.DeliveryType,
		ScheduledDate:   snap.ScheduledDate,
		ScheduledPeriod: snap.ScheduledPeriod,
		PaymentMethod:   snap.PaymentMethod,
		DiscountCents:   discount,
		TotalCents:      domain.OrderTotal(subtotal, discount),
	}

	// The GETDEL claim keeps a snapshot backing at most one submission
	// across processes.
	if _, err := s.store.ConsumeSnapshot(ctx, userID); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			s.fail("snapshot_missing")
			return nil, domain.ErrSnapshotNotFound
		}
		s.fail("snapshot_error")
		return nil, fmt.Errorf("failed to claim checkout snapshot: %w", err)
	}

	if err := s.orders.CreateOrderWithItems(ctx, order, items); err != nil {
		// Nothing was written; put the claimed snapshot back so the
		// customer can retry.
		if restoreErr := s.store.SetSnapshot(ctx, userID, snap); restoreErr != nil {
			s.logger.Warn("failed to restore checkout snapshot after storage failure",
				"user_id", userID, "error", restoreErr)
		}
		s.fail("storage")
		return nil, err
	}

	// The order exists; a cart that fails to clear is an annoyance, not
	// a reason to report failure.
	if err := s.store.DeleteCart(ctx, userID); err != nil {
		s.logger.Warn("failed to clear cart after submission",
			"user_id", userID, "order_id", order.ID, "error", err)
	}

	if s.metrics != nil {
		s.metrics.OrderSubmitted(string(order.PaymentMethod), order.TotalCents)
	}
	s.logger.Info("order submitted",
		"order_id", order.ID,
		"user_id", userID,
		"total_cents", order.TotalCents,
		"items", len(items))

	return &domain.OrderDetail{Order: *order, Items: items, Address: *address}, nil
}

func (s *orderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*domain.OrderDetail, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// A foreign order reads as missing, not forbidden.
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}

	items, err := s.orders.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	address, err := s.addresses.GetOwned(ctx, userID, order.AddressID)
	if err != nil {
		return nil, err
	}
	return &domain.OrderDetail{Order: *order, Items: items, Address: *address}, nil
}

func (s *orderService) List(ctx context.Context, userID uuid.UUID, statuses []domain.OrderStatus) ([]domain.Order, error) {
	for _, status := range statuses {
		if !status.Valid() {
			return nil, domain.Errorf(domain.EINVALID, "order.list", "unknown status: %s", status)
		}
	}
	return s.orders.ListForUser(ctx, userID, statuses)
}

func (s *orderService) acquire(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *orderService) release(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, userID)
}

func (s *orderService) fail(reason string) {
	if s.metrics != nil {
		s.metrics.OrderSubmissionFailed(reason)
	}
}
