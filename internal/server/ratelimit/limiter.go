// Package ratelimit throttles unauthenticated endpoints with a fixed-window
// counter kept in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether another request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// counter is the subset of redis.Cmdable used by RedisLimiter.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RedisLimiter counts requests per key with INCR and starts the window with
// EXPIRE on the first hit.
type RedisLimiter struct {
	rdb    counter
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter returns a limiter allowing limit requests per window for
// each key. Keys are namespaced with prefix.
func NewRedisLimiter(rdb redis.Cmdable, limit int, window time.Duration, prefix string) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := l.prefix + ":" + key

	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("redis expire: %w", err)
		}
	}

	d := Decision{Allowed: true, Limit: l.limit, Remaining: l.limit - int(count)}
	if count <= int64(l.limit) {
		return d, nil
	}

	d.Allowed = false
	d.Remaining = 0
	d.RetryAfter = l.window

	// A key without TTL (-1) would never reset; repair it.
	ttl, err := l.rdb.TTL(ctx, k).Result()
	switch {
	case err != nil:
	case ttl > 0:
		d.RetryAfter = ttl
	case ttl == -1:
		_ = l.rdb.Expire(ctx, k, l.window).Err()
	}
	return d, nil
}

// NewRedisClient builds a client for addr. It does not connect.
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}
