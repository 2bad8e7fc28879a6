package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentexcel/talentexcel-api/internal/ports"
)

const defaultPendingTTL = 24 * time.Hour

// PendingStore holds pending registrations in Redis, one slot per
// address. Slots outlive individual codes so a registration can be
// resent, and Redis TTL reclaims abandoned ones.
type PendingStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewPendingStore creates a Redis-based pending registration store.
func NewPendingStore(client redis.UniversalClient) *PendingStore {
	return &PendingStore{
		client: client,
		prefix: "pending:",
		ttl:    defaultPendingTTL,
	}
}

// NewPendingStoreWithTTL creates a pending registration store with a
// custom slot lifetime.
func NewPendingStoreWithTTL(client redis.UniversalClient, ttl time.Duration) *PendingStore {
	return &PendingStore{
		client: client,
		prefix: "pending:",
		ttl:    ttl,
	}
}

// Put stores reg keyed by its address, replacing any previous slot.
func (s *PendingStore) Put(ctx context.Context, reg ports.PendingRegistration) error {
	if reg.Email == "" {
		return errors.New("pending registration email cannot be empty")
	}
	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal pending registration: %w", err)
	}
	return s.client.Set(ctx, s.prefix+reg.Email, data, s.ttl).Err()
}

// Get returns the pending registration for email, or ports.ErrPendingNotFound.
func (s *PendingStore) Get(ctx context.Context, email string) (ports.PendingRegistration, error) {
	if email == "" {
		return ports.PendingRegistration{}, ports.ErrPendingNotFound
	}
	data, err := s.client.Get(ctx, s.prefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.PendingRegistration{}, ports.ErrPendingNotFound
		}
		return ports.PendingRegistration{}, fmt.Errorf("redis get: %w", err)
	}
	var reg ports.PendingRegistration
	if err := json.Unmarshal([]byte(data), &reg); err != nil {
		return ports.PendingRegistration{}, fmt.Errorf("unmarshal pending registration: %w", err)
	}
	return reg, nil
}

// Delete removes the slot for email.
func (s *PendingStore) Delete(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+email).Err()
}
