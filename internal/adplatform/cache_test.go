package adplatform

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*RedisAdCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisAdCache(client, time.Hour, zap.NewNop()), mr
}

func TestRedisAdCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	ad := Ad{
		AccountID: "act_1",
		Details: &AdDetails{
			AdID:       "42",
			AdName:     "Spring Sale",
			AdSetID:    "as_1",
			CampaignID: "c_1",
		},
	}
	require.NoError(t, cache.Put(ctx, "u1", ad))

	got, err := cache.Get(ctx, "u1", "42")
	require.NoError(t, err)
	assert.Equal(t, ad, got)
}

func TestRedisAdCacheMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Get(context.Background(), "u1", "missing")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestRedisAdCacheKeysArePerUser(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "u1", Ad{ID: "42", Name: "Spring Sale"}))

	assert.True(t, mr.Exists("ad:details:u1:42"))

	got, err := cache.Get(ctx, "u2", "42")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestRedisAdCachePutRejectsAnonymousAd(t *testing.T) {
	cache, _ := newTestCache(t)
	assert.Error(t, cache.Put(context.Background(), "u1", Ad{Name: "no id"}))
}

func TestRedisAdCacheCorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t)

	require.NoError(t, mr.Set("ad:details:u1:42", "not json"))

	_, err := cache.Get(context.Background(), "u1", "42")
	assert.Error(t, err)
}
