package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/mhracrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter(t *testing.T) {
	t.Parallel()

	t.Run("paces successive requests by the configured delay", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewLimiter(20 * time.Millisecond)
		ctx := context.Background()

		start := time.Now()
		require.NoError(t, limiter.Wait(ctx))
		require.NoError(t, limiter.Wait(ctx))
		require.NoError(t, limiter.Wait(ctx))

		// First wait consumes the initial token; the two that follow
		// must each sit out a full delay.
		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})

	t.Run("non-positive delay disables pacing", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewLimiter(0)
		ctx := context.Background()

		start := time.Now()
		for i := 0; i < 100; i++ {
			require.NoError(t, limiter.Wait(ctx))
		}
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("returns on context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewLimiter(time.Hour)
		ctx, cancel := context.WithCancel(context.Background())

		require.NoError(t, limiter.Wait(ctx)) // initial token
		cancel()
		assert.Error(t, limiter.Wait(ctx))
	})
}
