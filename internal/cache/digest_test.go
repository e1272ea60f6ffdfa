package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = Fingerprint{Day: "2024-06-10", Completed: 3, Streak: 2, Trend: "positive"}

func TestDigestKey(t *testing.T) {
	assert.Equal(t, "digest:u1:2024-06-10:3:2:positive", DigestKey("u1", day))
}

func TestDigestCacheDisabled(t *testing.T) {
	c := NewDigestCache(nil, 0, nil)
	assert.Equal(t, DefaultDigestTTL, c.ttl)

	c.Set(context.Background(), "u1", day, "story")
	_, ok := c.Get(context.Background(), "u1", day)
	assert.False(t, ok)

	var nilCache *DigestCache
	_, ok = nilCache.Get(context.Background(), "u1", day)
	assert.False(t, ok)
}

func TestDigestCacheUnreachableIsMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := NewDigestCache(rdb, time.Minute, nil)
	c.Set(context.Background(), "u1", day, "story")
	_, ok := c.Get(context.Background(), "u1", day)
	assert.False(t, ok)
}

func TestDigestCacheMissesOnChangedInputs(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	c := NewDigestCache(rdb, time.Minute, nil)
	c.Set(ctx, "u1", day, "story")

	got, ok := c.Get(ctx, "u1", day)
	require.True(t, ok)
	assert.Equal(t, "story", got)
	assert.Equal(t, time.Minute, mr.TTL(DigestKey("u1", day)))

	streak := day
	streak.Streak++
	_, ok = c.Get(ctx, "u1", streak)
	assert.False(t, ok)

	trend := day
	trend.Trend = "negative"
	_, ok = c.Get(ctx, "u1", trend)
	assert.False(t, ok)

	_, ok = c.Get(ctx, "u2", day)
	assert.False(t, ok)
}
