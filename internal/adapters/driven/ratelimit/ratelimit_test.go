package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledReturnsNil(t *testing.T) {
	assert.Nil(t, New(0))
	assert.Nil(t, New(-1))
}

func TestNilLimiter_NeverBlocks(t *testing.T) {
	var r *RateLimiter

	require.NoError(t, r.Wait(context.Background()))
	assert.True(t, r.Allow())
	r.RecordRateLimitError(time.Second)
}

func TestRateLimiter_BurstAllowed(t *testing.T) {
	r := New(2)
	require.NotNil(t, r)

	assert.True(t, r.Allow())
	assert.True(t, r.Allow())
	assert.False(t, r.Allow())
}

func TestRateLimiter_FractionalRateHasBurstOfOne(t *testing.T) {
	r := New(0.5)
	require.NotNil(t, r)

	assert.True(t, r.Allow())
	assert.False(t, r.Allow())
}

func TestRateLimiter_BackoffBlocksAllow(t *testing.T) {
	r := New(100)
	r.RecordRateLimitError(time.Hour)

	assert.False(t, r.Allow())
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	r := New(100)
	r.RecordRateLimitError(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_BackoffNeverShortened(t *testing.T) {
	r := New(100)
	r.RecordRateLimitError(time.Hour)
	r.RecordRateLimitError(time.Millisecond)

	assert.False(t, r.Allow())
}
