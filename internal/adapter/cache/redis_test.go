package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedis("redis://"+mr.Addr(), "test")
	require.NoError(t, err)
	return c
}

func TestRedisGetSet(t *testing.T) {
	t.Parallel()
	c := newTestRedis(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestRedisPrefixIsolation(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	a, err := NewRedis("redis://"+mr.Addr(), "a")
	require.NoError(t, err)
	b, err := NewRedis("redis://"+mr.Addr(), "b")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "k", []byte("va"), 0))
	_, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "prefixes must not collide")

	na, err := a.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, na)
}

func TestRedisBadURL(t *testing.T) {
	t.Parallel()
	_, err := NewRedis("not-a-url", "x")
	assert.Error(t, err)
}

func TestRedisPing(t *testing.T) {
	t.Parallel()
	c := newTestRedis(t)
	assert.NoError(t, c.Ping(context.Background()))
}
