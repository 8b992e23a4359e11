// Package ratelimit paces outgoing model requests.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBackoff is applied after a rate limit response without a retry hint.
const DefaultBackoff = 60 * time.Second

// RateLimiter is a token bucket with an optional backoff window.
// A nil *RateLimiter never blocks, so adapters can hold one unconditionally.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// New creates a limiter allowing rps requests per second.
// Returns nil when rps is not positive, which disables pacing.
func New(rps float64) *RateLimiter {
	if rps <= 0 {
		return nil
	}
	burst := int(math.Ceil(rps))
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		timer := time.NewTimer(time.Until(retryAt))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError pushes later requests back by d.
// The failed request itself is not repeated.
func (r *RateLimiter) RecordRateLimitError(d time.Duration) {
	if r == nil {
		return
	}
	if d <= 0 {
		d = DefaultBackoff
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := time.Now().Add(d)
	if next.After(r.retryAt) {
		r.retryAt = next
	}
}

// Allow reports whether a request could be made immediately.
func (r *RateLimiter) Allow() bool {
	if r == nil {
		return true
	}

	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}
