package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_MemoryStoreWindow(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	limiter := New(store, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := limiter.Allow(ctx, "login", "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}

	d, err := limiter.Allow(ctx, "login", "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, int64(0), d.Remaining)

	// other scopes and keys have their own budget
	d, _ = limiter.Allow(ctx, "forgot-password", "1.2.3.4")
	assert.True(t, d.Allowed)
	d, _ = limiter.Allow(ctx, "login", "5.6.7.8")
	assert.True(t, d.Allowed)

	now = now.Add(time.Minute)
	d, _ = limiter.Allow(ctx, "login", "1.2.3.4")
	assert.True(t, d.Allowed)
}

func TestLimiter_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := New(NewRedisStore(client), 3, time.Minute)
	t.Cleanup(func() { _ = limiter.Close() })

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "login", "ip")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}

	d, err := limiter.Allow(ctx, "login", "ip")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.True(t, mr.Exists("ratelimit:login:ip"))

	mr.FastForward(time.Minute + time.Second)

	d, err = limiter.Allow(ctx, "login", "ip")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLimiter_RedisDownFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	limiter := New(NewRedisStore(client), 1, time.Minute)
	mr.Close()

	d, err := limiter.Allow(context.Background(), "login", "ip")
	assert.Error(t, err)
	assert.True(t, d.Allowed)
}
