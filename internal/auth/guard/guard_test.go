package guard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryAcquireRelease(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := NewMemory(time.Minute)

	token, ok, err := g.Acquire(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, token)

	_, ok, err = g.Acquire(ctx, "fp-1")
	require.NoError(t, err)
	require.False(t, ok, "second acquire must fail while held")

	_, ok, err = g.Acquire(ctx, "fp-2")
	require.NoError(t, err)
	require.True(t, ok, "other keys are independent")

	require.NoError(t, g.Release(ctx, "fp-1", token))
	_, ok, err = g.Acquire(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, g.Release(ctx, "never-held", "whatever"))
}

func TestMemoryReleaseChecksOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewMemory(time.Minute)
	g.now = func() time.Time { return now }

	first, ok, _ := g.Acquire(ctx, "fp")
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	second, ok, _ := g.Acquire(ctx, "fp")
	require.True(t, ok, "expired hold is taken over")

	require.NoError(t, g.Release(ctx, "fp", first))
	_, ok, _ = g.Acquire(ctx, "fp")
	require.False(t, ok, "stale holder must not free the new hold")

	require.NoError(t, g.Release(ctx, "fp", second))
	require.Zero(t, g.Len())
}

func TestMemoryExtend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewMemory(time.Minute)
	g.now = func() time.Time { return now }

	token, ok, _ := g.Acquire(ctx, "fp")
	require.True(t, ok)

	t.Run("restarts the ttl", func(t *testing.T) {
		now = now.Add(50 * time.Second)
		ok, err := g.Extend(ctx, "fp", token)
		require.NoError(t, err)
		require.True(t, ok)

		now = now.Add(50 * time.Second)
		_, ok, _ = g.Acquire(ctx, "fp")
		require.False(t, ok, "still held after the original ttl")
	})

	t.Run("retakes an expired free key", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		ok, err := g.Extend(ctx, "fp", token)
		require.NoError(t, err)
		require.True(t, ok)

		_, ok, _ = g.Acquire(ctx, "fp")
		require.False(t, ok)
	})

	t.Run("refuses when another token holds the key", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		other, ok, _ := g.Acquire(ctx, "fp")
		require.True(t, ok)

		ok, err := g.Extend(ctx, "fp", token)
		require.NoError(t, err)
		require.False(t, ok)

		require.NoError(t, g.Release(ctx, "fp", other))
	})
}

func TestMemoryExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewMemory(time.Minute)
	g.now = func() time.Time { return now }

	_, ok, _ := g.Acquire(ctx, "fp")
	require.True(t, ok)

	now = now.Add(59 * time.Second)
	_, ok, _ = g.Acquire(ctx, "fp")
	require.False(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, _ = g.Acquire(ctx, "fp")
	require.True(t, ok, "expired keys can be taken over")
}

func TestMemoryConcurrentAcquire(t *testing.T) {
	t.Parallel()

	g := NewMemory(0)
	require.Equal(t, DefaultTTL, g.TTL)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := g.Acquire(context.Background(), "same"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())
	require.Equal(t, 1, g.Len())
}
