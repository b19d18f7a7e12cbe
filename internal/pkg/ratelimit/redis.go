package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares counters between API instances
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Increment implements Store with INCR and an expiry set on the first hit
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit counter: %w", err)
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return count, time.Time{}, fmt.Errorf("rate limit expiry: %w", err)
		}
		return count, time.Now().Add(window), nil
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		// a key that lost its expiry would block forever
		_ = s.client.PExpire(ctx, key, window).Err()
		ttl = window
	}
	return count, time.Now().Add(ttl), nil
}

// Close implements Store
func (s *RedisStore) Close() error {
	return s.client.Close()
}
