// Package cache keeps generated digests in Redis so repeated requests on an
// unchanged day do not call the generator again.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultDigestTTL = 10 * time.Minute

// DigestCache is keyed by user and by everything the digest prompt is built
// from, so a new completion or mood entry naturally misses. A nil client
// turns every call into a miss.
type DigestCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDigestCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *DigestCache {
	if ttl <= 0 {
		ttl = DefaultDigestTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DigestCache{rdb: rdb, ttl: ttl, logger: logger}
}

// Fingerprint is the state a digest was generated from
type Fingerprint struct {
	Day       string
	Completed int
	Streak    int
	Trend     string
}

func DigestKey(userID string, fp Fingerprint) string {
	return fmt.Sprintf("digest:%s:%s:%d:%d:%s", userID, fp.Day, fp.Completed, fp.Streak, fp.Trend)
}

// Get returns the cached digest and whether it was found
func (c *DigestCache) Get(ctx context.Context, userID string, fp Fingerprint) (string, bool) {
	if c == nil || c.rdb == nil {
		return "", false
	}
	val, err := c.rdb.Get(ctx, DigestKey(userID, fp)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Digest cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

// Set stores a digest. Failures are logged and otherwise ignored.
func (c *DigestCache) Set(ctx context.Context, userID string, fp Fingerprint, digest string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, DigestKey(userID, fp), digest, c.ttl).Err(); err != nil {
		c.logger.Warn("Digest cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
}
