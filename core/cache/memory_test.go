package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cartsession/core/cache"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Minute))

		got, ok, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("v1"), got)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		_, ok, err := c.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("non-positive ttl is not stored", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		require.NoError(t, c.Set(ctx, "k1", []byte("v1"), 0))
		require.NoError(t, c.Set(ctx, "k2", []byte("v2"), -time.Minute))
		assert.Equal(t, 0, c.Len())
	})

	t.Run("expired entries miss", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, ok, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete removes entry", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Minute))
		require.NoError(t, c.Delete(ctx, "k1"))

		_, ok, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invalidate all clears namespace", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Minute))
		require.NoError(t, c.Set(ctx, "k2", []byte("v2"), time.Minute))
		require.NoError(t, c.InvalidateAll(ctx))
		assert.Equal(t, 0, c.Len())
	})

	t.Run("stored value is copied", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		src := []byte("original")
		require.NoError(t, c.Set(ctx, "k1", src, time.Minute))
		src[0] = 'X'

		got, ok, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("original"), got)
	})
}
