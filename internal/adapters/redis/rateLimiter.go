package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "blogapi:ratelimit:"

// RateLimiterRedis is a fixed-window counter per key: the first hit in a
// window sets the expiry, and hits beyond the limit are refused until the
// key expires.
type RateLimiterRedis struct {
	Client *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiterRedis(client *redis.Client, limit int, window time.Duration) *RateLimiterRedis {
	return &RateLimiterRedis{
		Client: client,
		limit:  int64(limit),
		window: window,
	}
}

// Allow counts one hit for key. When the limit is exceeded it also returns
// how long until the window resets.
func (r *RateLimiterRedis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := keyPrefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// NX keeps the window anchored at the first hit; INCR keeps the TTL
		pipe.SetNX(ctx, redisKey, 0, r.window)
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}

	if incr.Val() <= r.limit {
		return true, 0, nil
	}
	retryAfter := ttl.Val()
	if retryAfter <= 0 {
		retryAfter = r.window
	}
	return false, retryAfter, nil
}
