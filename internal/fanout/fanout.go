// Package fanout runs independent calls concurrently behind a counting
// admission limit and returns their results in input order.
//
// A Limiter may be shared by several Map calls; the bound then applies to
// all of them together. Waiters are admitted first-come-first-served and
// callers see no backpressure other than delayed completion.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Limiter is a counting gate bounding how many calls may be in flight.
type Limiter struct {
	sem  *semaphore.Weighted
	size int
}

// NewLimiter creates a limiter admitting n concurrent calls.
// Values below 1 are raised to 1.
func NewLimiter(n int) *Limiter {
	if n < 1 {
		n = 1
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(n)), size: n}
}

// Size returns the number of concurrent calls admitted.
func (l *Limiter) Size() int {
	return l.size
}

// Acquire blocks until a slot is free or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	l.sem.Release(1)
}

// Map calls fn once per item, with at most l.Size() calls in flight, and
// returns the results so that results[i] belongs to items[i] regardless of
// completion order. A nil limiter leaves the calls unbounded.
//
// fn reports failures through its result type; Map only returns an error
// when ctx ends before every item was admitted. Items that were never
// admitted keep the zero value of R.
func Map[T, R any](ctx context.Context, l *Limiter, items []T, fn func(ctx context.Context, item T) R) ([]R, error) {
	results := make([]R, len(items))
	var g errgroup.Group

	for i, item := range items {
		g.Go(func() error {
			if l != nil {
				if err := l.Acquire(ctx); err != nil {
					return err
				}
				defer l.Release()
			}
			results[i] = fn(ctx, item)
			return nil
		})
	}

	err := g.Wait()
	return results, err
}
