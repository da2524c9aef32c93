package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(client, zap.NewNop(), "camp"), mr
}

func TestCache_SetGet(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "slides:es", []byte(`[{"id":1}]`), time.Minute))

	data, err := cache.Get(ctx, "slides:es")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(data))

	// Keys are namespaced.
	assert.True(t, mr.Exists("camp:slides:es"))
	assert.Equal(t, time.Minute, mr.TTL("camp:slides:es"))
}

func TestCache_GetMissing(t *testing.T) {
	cache, _ := setupTestCache(t)

	data, err := cache.Get(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCache_Expiry(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "content:1", []byte("x"), time.Second))
	mr.FastForward(2 * time.Second)

	data, err := cache.Get(ctx, "content:1")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCache_Delete(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "content:1", []byte("x"), time.Minute))
	require.NoError(t, cache.Delete(ctx, "content:1"))
	require.NoError(t, cache.Delete(ctx, "content:1"), "deleting twice is fine")

	data, _ := cache.Get(ctx, "content:1")
	assert.Nil(t, data)
}

func TestCache_DeletePrefix(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"content:1", "content:2", "content:3", "slides:en"} {
		require.NoError(t, cache.Set(ctx, key, []byte("x"), time.Minute))
	}
	require.NoError(t, mr.Set("other:content:9", "foreign"))

	require.NoError(t, cache.DeletePrefix(ctx, "content:"))

	assert.False(t, mr.Exists("camp:content:1"))
	assert.False(t, mr.Exists("camp:content:3"))
	assert.True(t, mr.Exists("camp:slides:en"))
	assert.True(t, mr.Exists("other:content:9"))
}

func TestCache_DeletePrefixAcrossScanBatches(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("camp:content:%d", i), "x"))
	}
	require.NoError(t, mr.Set("foreign", "keep"))

	require.NoError(t, cache.DeletePrefix(ctx, "content:"))

	assert.Equal(t, []string{"foreign"}, mr.Keys())
}

func TestCache_Ping(t *testing.T) {
	cache, mr := setupTestCache(t)

	assert.NoError(t, cache.Ping(context.Background()))

	mr.Close()
	assert.Error(t, cache.Ping(context.Background()))
}

func TestCache_ConnectionError(t *testing.T) {
	cache, mr := setupTestCache(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, cache.Set(context.Background(), "k", []byte("v"), time.Minute))
}
