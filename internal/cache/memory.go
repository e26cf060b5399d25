package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/portomercado/porto/internal/domain"
)

// MemoryStore is an in-process Store for tests and local development.
// Values are deep-copied through JSON-free struct copies, so callers
// cannot mutate stored state by accident.
type MemoryStore struct {
	mu        sync.Mutex
	carts     map[uuid.UUID]CartState
	snapshots map[uuid.UUID]domain.CheckoutSnapshot
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts:     make(map[uuid.UUID]CartState),
		snapshots: make(map[uuid.UUID]domain.CheckoutSnapshot),
	}
}

func (s *MemoryStore) GetCart(_ context.Context, userID uuid.UUID) (*CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.carts[userID]
	if !ok {
		return nil, ErrMiss
	}
	copied := state
	copied.Cart.Items = append([]domain.CartItem(nil), state.Cart.Items...)
	return &copied, nil
}

func (s *MemoryStore) SetCart(_ context.Context, userID uuid.UUID, state *CartState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *state
	stored.Cart.Items = append([]domain.CartItem(nil), state.Cart.Items...)
	s.carts[userID] = stored
	return nil
}

func (s *MemoryStore) DeleteCart(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

func (s *MemoryStore) GetSnapshot(_ context.Context, userID uuid.UUID) (*domain.CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[userID]
	if !ok {
		return nil, ErrMiss
	}
	copied := snap
	return &copied, nil
}

func (s *MemoryStore) SetSnapshot(_ context.Context, userID uuid.UUID, snap *domain.CheckoutSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[userID] = *snap
	return nil
}

func (s *MemoryStore) ConsumeSnapshot(_ context.Context, userID uuid.UUID) (*domain.CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[userID]
	if !ok {
		return nil, ErrMiss
	}
	delete(s.snapshots, userID)
	copied := snap
	return &copied, nil
}

func (s *MemoryStore) DeleteSnapshot(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, userID)
	return nil
}
