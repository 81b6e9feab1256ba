// Package cache keeps downloaded emoji bytes so repeated commands on the
// same emoji do not hit the network again.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "emodi:emoji"

	fieldContentType = "content_type"
	fieldData        = "data"
)

// Entry is a cached download.
type Entry struct {
	ContentType string
	Data        []byte
}

type Cache interface {
	// Get returns the entry stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, entry *Entry) error
}

// RedisCache stores entries as hashes that expire after ttl.
type RedisCache struct {
	client    redis.UniversalClient
	ttl       time.Duration
	keyPrefix string
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration, keyPrefix string) (*RedisCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive")
	}
	if strings.TrimSpace(keyPrefix) == "" {
		keyPrefix = defaultPrefix
	}
	return &RedisCache{client: client, ttl: ttl, keyPrefix: keyPrefix}, nil
}

func (c *RedisCache) key(key string) string {
	return c.keyPrefix + ":" + key
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Entry, bool, error) {
	values, err := c.client.HGetAll(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	data, ok := values[fieldData]
	if !ok {
		return nil, false, nil
	}
	return &Entry{ContentType: values[fieldContentType], Data: []byte(data)}, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, entry *Entry) error {
	k := c.key(key)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, fieldContentType, entry.ContentType, fieldData, entry.Data)
		pipe.Expire(ctx, k, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*Entry, bool, error) { return nil, false, nil }

func (NoopCache) Set(context.Context, string, *Entry) error { return nil }
