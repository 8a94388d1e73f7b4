package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)

	var got map[string]any
	ok, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetJSON(ctx, "k", map[string]any{"titre": "Alien"}))
	ok, err = c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Alien", got["titre"])

	mr.FastForward(2 * time.Minute)
	ok, _ = c.GetJSON(ctx, "k", &got)
	assert.False(t, ok)
}

func TestCacheKeepsLargeIntegers(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)

	require.NoError(t, c.SetJSON(ctx, "k", map[string]any{"n": json.Number("9007199254740993")}))

	var got map[string]any
	ok, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, json.Number("9007199254740993"), got["n"])
}

func TestCacheGeneration(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)

	gen, err := c.Generation(ctx, "films")
	require.NoError(t, err)
	assert.Zero(t, gen)

	require.NoError(t, c.Bump(ctx, "films"))
	require.NoError(t, c.Bump(ctx, "films"))
	gen, err = c.Generation(ctx, "films")
	require.NoError(t, err)
	assert.EqualValues(t, 2, gen)
}

func TestNilCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	var c *Cache

	require.NoError(t, c.SetJSON(ctx, "k", 1))
	ok, err := c.GetJSON(ctx, "k", new(int))
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Bump(ctx, "films"))

	c = New(nil, time.Minute)
	gen, err := c.Generation(ctx, "films")
	assert.NoError(t, err)
	assert.Zero(t, gen)
}
