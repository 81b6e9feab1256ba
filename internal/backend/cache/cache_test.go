package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c, err := NewRedisCache(client, ttl, "")
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	return c, mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	data := []byte{0x00, 0xff, 'G', 'I', 'F'}
	if err := c.Set(ctx, "https://example.com/a.gif", &Entry{ContentType: "image/gif", Data: data}); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if !mr.Exists(defaultPrefix + ":https://example.com/a.gif") {
		t.Error("expected key with default prefix")
	}

	entry, ok, err := c.Get(ctx, "https://example.com/a.gif")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if entry.ContentType != "image/gif" || !bytes.Equal(entry.Data, data) {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestRedisCache_MissAndExpiry(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "absent"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k", &Entry{ContentType: "image/png", Data: []byte("x")}); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Close()
	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Error("expected error when redis is down")
	}
}

func TestNewRedisCache_Validation(t *testing.T) {
	if _, err := NewRedisCache(nil, time.Minute, ""); err == nil {
		t.Error("expected error for nil client")
	}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer func() { _ = client.Close() }()
	if _, err := NewRedisCache(client, 0, ""); err == nil {
		t.Error("expected error for zero ttl")
	}
}

func TestNoopCache(t *testing.T) {
	var c Cache = NoopCache{}
	if err := c.Set(context.Background(), "k", &Entry{}); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, ok, _ := c.Get(context.Background(), "k"); ok {
		t.Error("expected noop cache to miss")
	}
}
