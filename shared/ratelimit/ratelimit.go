// Package ratelimit implements fixed-window request limiting over a keyed
// counter store. Counters expire with their window, so a store shared between
// instances (MongoDB with a TTL index) gives every replica the same view.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store increments the counter of a bucket, creating it with the given
// expiry when it does not exist yet.
type Store interface {
	Increment(ctx context.Context, bucket string, expiresAt time.Time) (int64, error)
}

// Result describes the outcome of a single Allow call.
type Result struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

// Limiter allows at most limit hits per key within each window.
type Limiter struct {
	store  Store
	name   string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewLimiter creates a limiter. name separates the buckets of limiters sharing a store.
func NewLimiter(store Store, name string, limit int64, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		name:   name,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now()
	windowStart := now.Truncate(l.window)
	resetAt := windowStart.Add(l.window)
	bucket := fmt.Sprintf("%s:%s:%d", l.name, key, windowStart.Unix())

	count, err := l.store.Increment(ctx, bucket, resetAt)
	if err != nil {
		return Result{}, err
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
