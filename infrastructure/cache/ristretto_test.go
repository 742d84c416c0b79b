package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRistrettoCache_SetGet(t *testing.T) {
	c, err := NewRistrettoCache(100)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "platforms", []string{"forumA"}, time.Minute))

	v, ok := c.Get(ctx, "platforms")
	require.True(t, ok)
	assert.Equal(t, []string{"forumA"}, v)

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestRistrettoCache_Clear(t *testing.T) {
	c, err := NewRistrettoCache(100)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	c.Clear()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
