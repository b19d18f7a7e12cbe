package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store counts hits per key inside a fixed window
type Store interface {
	// Increment adds one hit to key and returns the count in the current
	// window together with the time the window resets.
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
	Close() error
}

// Limiter is a fixed window counter shared by the authentication routes
type Limiter struct {
	store  Store
	max    int64
	window time.Duration
}

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// New creates a limiter allowing max hits per window for each key
func New(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: int64(max), window: window}
}

// Allow records a hit for scope/key and reports whether it is within budget
func (l *Limiter) Allow(ctx context.Context, scope, key string) (Decision, error) {
	count, resetAt, err := l.store.Increment(ctx, fmt.Sprintf("ratelimit:%s:%s", scope, key), l.window)
	if err != nil {
		return Decision{Allowed: true}, err
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: count <= l.max, Remaining: remaining, ResetAt: resetAt}, nil
}

// Max returns the per-window budget
func (l *Limiter) Max() int64 {
	return l.max
}

// Close releases the backing store
func (l *Limiter) Close() error {
	return l.store.Close()
}
