// Package ratelimit bounds how many commands one chat user may run per window.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, subject string) (Decision, error)
}

// RedisFixedWindow counts requests per subject in windows starting at the
// first request.
type RedisFixedWindow struct {
	client    redis.UniversalClient
	limit     int64
	window    time.Duration
	keyPrefix string
}

func NewRedisFixedWindow(client redis.UniversalClient, limit int, window time.Duration, keyPrefix string) (*RedisFixedWindow, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive")
	}
	if strings.TrimSpace(keyPrefix) == "" {
		keyPrefix = "emodi:ratelimit"
	}
	return &RedisFixedWindow{client: client, limit: int64(limit), window: window, keyPrefix: keyPrefix}, nil
}

func (l *RedisFixedWindow) Allow(ctx context.Context, subject string) (Decision, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "anonymous"
	}
	key := fmt.Sprintf("%s:%s", l.keyPrefix, subject)

	// The window starts with its expiry in the same transaction as the count.
	var count *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, l.window)
		count = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("count request: %w", err)
	}
	n, retry := count.Val(), ttl.Val()
	if retry < 0 {
		// counter without expiry
		if err := l.client.PExpire(ctx, key, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("start window: %w", err)
		}
		retry = l.window
	}

	if n <= l.limit {
		return Decision{Allowed: true, Remaining: l.limit - n}, nil
	}
	return Decision{Allowed: false, Remaining: 0, RetryAfter: retry}, nil
}

// Unlimited allows everything.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true, Remaining: -1}, nil
}
