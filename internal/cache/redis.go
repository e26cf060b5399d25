package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/portomercado/porto/internal/domain"
)

// RedisStore keeps carts and checkout snapshots in Redis. Carts live long
// (days) so a customer can come back to a half-filled cart; snapshots are
// short-lived because a stale review screen should not turn into an order.
type RedisStore struct {
	client      *redis.Client
	cartTTL     time.Duration
	snapshotTTL time.Duration
}

// NewRedisStore builds a store around an existing client.
func NewRedisStore(client *redis.Client, cartTTL, snapshotTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:      client,
		cartTTL:     cartTTL,
		snapshotTTL: snapshotTTL,
	}
}

func cartKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:%s", userID)
}

func snapshotKey(userID uuid.UUID) string {
	return fmt.Sprintf("checkout:%s", userID)
}

func (s *RedisStore) GetCart(ctx context.Context, userID uuid.UUID) (*CartState, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart failed: %w", err)
	}

	var state CartState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &state, nil
}

func (s *RedisStore) SetCart(ctx context.Context, userID uuid.UUID, state *CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(userID), data, s.cartTTL).Err(); err != nil {
		return fmt.Errorf("redis set cart failed: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete cart failed: %w", err)
	}
	return nil
}

func (s *RedisStore) GetSnapshot(ctx context.Context, userID uuid.UUID) (*domain.CheckoutSnapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get snapshot failed: %w", err)
	}
	return unmarshalSnapshot(data)
}

func (s *RedisStore) SetSnapshot(ctx context.Context, userID uuid.UUID, snap *domain.CheckoutSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot failed: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(userID), data, s.snapshotTTL).Err(); err != nil {
		return fmt.Errorf("redis set snapshot failed: %w", err)
	}
	return nil
}

// ConsumeSnapshot uses GETDEL so two concurrent submissions cannot both
// observe the same snapshot.
func (s *RedisStore) ConsumeSnapshot(ctx context.Context, userID uuid.UUID) (*domain.CheckoutSnapshot, error) {
	data, err := s.client.GetDel(ctx, snapshotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis getdel snapshot failed: %w", err)
	}
	return unmarshalSnapshot(data)
}

func (s *RedisStore) DeleteSnapshot(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete snapshot failed: %w", err)
	}
	return nil
}

func unmarshalSnapshot(data []byte) (*domain.CheckoutSnapshot, error) {
	var snap domain.CheckoutSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot failed: %w", err)
	}
	return &snap, nil
}
