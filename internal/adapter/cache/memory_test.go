package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	t.Parallel()
	c := NewMemory(4)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryEvictsOldestWhenFull(t *testing.T) {
	t.Parallel()
	c := NewMemory(2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))

	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok, _ = c.Get(ctx, "b")
	assert.True(t, ok)
	_, ok, _ = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryOverwriteKeepsCapacity(t *testing.T) {
	t.Parallel()
	c := NewMemory(2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "a", []byte("2"), 0))
	got, ok, _ := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("2"), got)
	n, _ := c.Len(ctx)
	assert.Equal(t, 1, n)
}

func TestMemoryTTLExpiry(t *testing.T) {
	t.Parallel()
	c := NewMemory(4)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok, "entry past TTL should be gone")
}

func TestMemoryExpiryThenReinsertKeepsEntryLive(t *testing.T) {
	t.Parallel()
	c := NewMemory(2)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))

	// Expire "a" and observe the miss, then store it again.
	now = now.Add(2 * time.Minute)
	_, ok, _ := c.Get(ctx, "a")
	require.False(t, ok)
	require.NoError(t, c.Set(ctx, "a", []byte("3"), 0))

	// Filling the cache must evict "b", the oldest entry, not the
	// re-inserted "a".
	require.NoError(t, c.Set(ctx, "c", []byte("4"), 0))
	got, ok, _ := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), got)
	_, ok, _ = c.Get(ctx, "b")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "c")
	assert.True(t, ok)

	n, _ := c.Len(ctx)
	assert.Equal(t, 2, n)
}
