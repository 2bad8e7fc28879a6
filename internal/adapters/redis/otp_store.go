package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentexcel/talentexcel-api/internal/ports"
)

// OTPStore holds one-time registration codes in Redis. Redis TTL enforces
// code expiry; a fresh Put for the same address replaces the old code.
type OTPStore struct {
	client redis.UniversalClient
	prefix string
}

// NewOTPStore creates a new Redis-based OTP store.
func NewOTPStore(client redis.UniversalClient) *OTPStore {
	return &OTPStore{
		client: client,
		prefix: "otp:",
	}
}

// NewOTPStoreWithPrefix creates a Redis OTP store with a custom key prefix.
func NewOTPStoreWithPrefix(client redis.UniversalClient, prefix string) *OTPStore {
	return &OTPStore{
		client: client,
		prefix: prefix,
	}
}

// Put stores code for email, replacing any previous code.
func (s *OTPStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	if email == "" {
		return errors.New("email cannot be empty")
	}
	if code == "" {
		return errors.New("code cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}
	return s.client.Set(ctx, s.prefix+email, code, ttl).Err()
}

// Get returns the current code for email, or ports.ErrOTPNotFound.
func (s *OTPStore) Get(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", ports.ErrOTPNotFound
	}
	code, err := s.client.Get(ctx, s.prefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrOTPNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return code, nil
}

// Delete removes the code for email.
func (s *OTPStore) Delete(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+email).Err()
}
