package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcart/backend/internal/domain"
)

func TestNewRedisCache_InvalidURL(t *testing.T) {
	cache, err := NewRedisCache(context.Background(), "not-a-redis-url", "smartcart:")

	assert.Nil(t, cache)
	assert.Error(t, err)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cache, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0", "smartcart:")

	assert.Nil(t, cache)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

func newMiniredisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cache, err := NewRedisCache(context.Background(), "redis://"+mr.Addr(), "smartcart:")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	return cache, mr
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "catalog:items", []byte(`[{"name":"Tomato"}]`), time.Minute))
	assert.True(t, mr.Exists("smartcart:catalog:items"))
	assert.False(t, mr.Exists("catalog:items"))

	got, err := cache.Get(ctx, "catalog:items")
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Tomato"}]`, string(got))

	exists, err := cache.Exists(ctx, "catalog:items")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, "catalog:items"))
	assert.False(t, mr.Exists("smartcart:catalog:items"))

	exists, err = cache.Exists(ctx, "catalog:items")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisCache_Miss(t *testing.T) {
	cache, _ := newMiniredisCache(t)

	got, err := cache.Get(context.Background(), "catalog:offers")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Expiry(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "catalog:items", []byte(`[]`), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("smartcart:catalog:items"))

	mr.FastForward(59 * time.Second)
	_, err := cache.Get(ctx, "catalog:items")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	_, err = cache.Get(ctx, "catalog:items")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_ServerErrors(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	ctx := context.Background()

	mr.SetError("ERR cache offline")

	_, err := cache.Get(ctx, "catalog:items")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
	assert.ErrorIs(t, cache.Set(ctx, "catalog:items", []byte(`[]`), time.Minute), domain.ErrCacheUnavailable)
	assert.ErrorIs(t, cache.Delete(ctx, "catalog:items"), domain.ErrCacheUnavailable)
	_, err = cache.Exists(ctx, "catalog:items")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

// TestRedisCache_RoundTrip runs against a live server when SMARTCART_TEST_REDIS_URL is set
func TestRedisCache_RoundTrip(t *testing.T) {
	url := os.Getenv("SMARTCART_TEST_REDIS_URL")
	if url == "" {
		t.Skip("SMARTCART_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	cache, err := NewRedisCache(ctx, url, "smartcart-test:")
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Set(ctx, "catalog:items", []byte(`[]`), time.Minute))

	got, err := cache.Get(ctx, "catalog:items")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	exists, err := cache.Exists(ctx, "catalog:items")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, "catalog:items"))
	_, err = cache.Get(ctx, "catalog:items")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
