package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiterConsumesBudget(t *testing.T) {
	limiter := NewTokenLimiter(100)

	require.NoError(t, limiter.Wait(context.Background(), 60))
	assert.Equal(t, 40, limiter.GetRemaining())

	require.NoError(t, limiter.Wait(context.Background(), 40))
	assert.Equal(t, 0, limiter.GetRemaining())
}

func TestTokenLimiterOversizeRequestAdmittedAlone(t *testing.T) {
	limiter := NewTokenLimiter(100)

	// A request above the per-minute budget must still be admitted on a
	// fresh window instead of blocking forever.
	require.NoError(t, limiter.Wait(context.Background(), 250))
}

func TestTokenLimiterContextCancellation(t *testing.T) {
	limiter := NewTokenLimiter(10)
	require.NoError(t, limiter.Wait(context.Background(), 10))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, 10)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
