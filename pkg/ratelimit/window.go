package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Window is a fixed-window counter kept in Redis. A nil client or a
// non-positive limit disables limiting.
type Window struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
	logger *zap.Logger
}

func NewWindow(rdb *redis.Client, prefix string, limit int, window time.Duration, logger *zap.Logger) *Window {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Window{
		rdb:    rdb,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
		logger: logger,
	}
}

// Allow increments the counter for key and reports whether the caller is
// still within the limit. Redis failures allow the call.
func (w *Window) Allow(ctx context.Context, key string) bool {
	if w == nil || w.rdb == nil || w.limit <= 0 {
		return true
	}

	count, err := w.IncrementAndGet(ctx, w.FormatKey(key))
	if err != nil {
		w.logger.Warn("rate limit check failed, allowing call",
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}
	return count <= w.limit
}

// IncrementAndGet increments key and returns the new count. The counter and
// its TTL are read in one round trip; a key found without a TTL gets one, so
// a failed EXPIRE cannot leave the window open forever.
func (w *Window) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := w.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if ttl.Val() < 0 {
		if err := w.rdb.Expire(ctx, key, w.window).Err(); err != nil {
			return 0, fmt.Errorf("failed to set window expiry: %w", err)
		}
	}
	return incr.Val(), nil
}

func (w *Window) FormatKey(key string) string {
	return fmt.Sprintf("ratelimit:%s:%s", w.prefix, key)
}
