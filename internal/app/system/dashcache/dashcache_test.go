package dashcache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/bonchi/carehub/internal/app/system/dashcache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "carehub:dashboard:hospital:abc", dashcache.Key("hospital", "abc"))
}

func TestNew_EmptyAddrIsNop(t *testing.T) {
	c, err := dashcache.New(context.Background(), dashcache.Config{})
	require.NoError(t, err)
	assert.IsType(t, dashcache.Nop{}, c)

	var v map[string]int
	hit, err := c.Get(context.Background(), "k", &v)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Set(context.Background(), "k", 1))
	assert.NoError(t, c.Close())
}

func TestNew_UnreachableFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := dashcache.New(ctx, dashcache.Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

// TestRedis_RoundTrip runs against CAREHUB_TEST_REDIS_ADDR when set.
func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("CAREHUB_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CAREHUB_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	c := dashcache.NewRedis(client, time.Minute)
	defer c.Close()

	ctx := context.Background()
	key := dashcache.Key("medical_store", time.Now().Format(time.RFC3339Nano))
	defer client.Del(ctx, key)

	type cards struct{ Pending, Fulfilled int64 }
	var got cards
	hit, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, key, cards{Pending: 3, Fulfilled: 5}))
	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, cards{Pending: 3, Fulfilled: 5}, got)

	ttl := client.TTL(ctx, key).Val()
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}
