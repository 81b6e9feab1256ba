package emojisource

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jo-hoe/emodi/internal/backend/cache"
	"github.com/jo-hoe/emodi/internal/backend/database"
	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

type mapCatalog map[string]string

func (m mapCatalog) GetEmojiURL(_ context.Context, team, name string) (string, error) {
	url, ok := m[team+"/"+name]
	if !ok {
		return "", database.ErrNotFound
	}
	return url, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

// newImageServer serves a w x w PNG at /<w>.png and counts requests.
func newImageServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/8.png", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png; charset=binary")
		_, _ = w.Write(pngBytes(t, 8, 8))
	})
	mux.HandleFunc("/16.png", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes(t, 16, 16))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestLookup(t *testing.T) {
	srv, _ := newImageServer(t)
	catalog := mapCatalog{
		"T1/parrot": srv.URL + "/8.png",
		"T1/bird":   "alias:parrot",
		"T1/ghost":  "alias:nowhere",
		"T2/parrot": srv.URL + "/16.png",
	}
	src := New(catalog, nil, Config{
		DefaultURL: srv.URL + "/%s",
		Defaults:   map[string]string{"smile": "16.png", "parrot": "16.png"},
	})

	tests := []struct {
		name     string
		team     string
		emoji    string
		found    bool
		wantSide int
	}{
		{"team emoji", "T1", "parrot", true, 8},
		{"team scoped", "T2", "parrot", true, 16},
		{"alias", "T1", "bird", true, 8},
		{"dangling alias", "T1", "ghost", false, 0},
		{"default emoji", "T1", "smile", true, 16},
		{"unknown", "T1", "nothing", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok, err := src.Lookup(context.Background(), tt.team, tt.emoji)
			if err != nil {
				t.Fatalf("Lookup error: %v", err)
			}
			if ok != tt.found {
				t.Fatalf("Lookup found = %v, want %v", ok, tt.found)
			}
			if ok && e.Size() != image.Pt(tt.wantSide, tt.wantSide) {
				t.Errorf("expected %dx%d emoji, got %v", tt.wantSide, tt.wantSide, e.Size())
			}
		})
	}
}

func TestLookup_UsesCache(t *testing.T) {
	srv, hits := newImageServer(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c, err := cache.NewRedisCache(client, time.Minute, "test")
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}

	src := New(mapCatalog{"T/a": srv.URL + "/8.png"}, c, Config{})
	for i := 0; i < 3; i++ {
		if _, ok, err := src.Lookup(context.Background(), "T", "a"); err != nil || !ok {
			t.Fatalf("Lookup #%d failed: ok=%v err=%v", i, ok, err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("expected a single download, got %d", hits.Load())
	}
}

func TestLookup_DownloadErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.png":
			http.NotFound(w, r)
		case "/large.png":
			_, _ = w.Write(make([]byte, 64))
		default:
			_, _ = w.Write([]byte("not an image"))
		}
	}))
	t.Cleanup(srv.Close)

	catalog := mapCatalog{
		"T/missing": srv.URL + "/missing.png",
		"T/large":   srv.URL + "/large.png",
		"T/garbage": srv.URL + "/garbage.png",
	}
	src := New(catalog, nil, Config{MaxBytes: 32})

	for _, name := range []string{"missing", "large", "garbage"} {
		t.Run(name, func(t *testing.T) {
			if _, _, err := src.Lookup(context.Background(), "T", name); err == nil {
				t.Error("expected download error")
			}
		})
	}
}

func TestLookup_DecodeBudget(t *testing.T) {
	srv, _ := newImageServer(t)
	catalog := mapCatalog{
		"T/small": srv.URL + "/8.png",
		"T/big":   srv.URL + "/16.png",
	}
	src := New(catalog, nil, Config{MaxPixels: 100})

	if _, ok, err := src.Lookup(context.Background(), "T", "small"); err != nil || !ok {
		t.Fatalf("Expected 8x8 emoji within budget, got ok=%v err=%v", ok, err)
	}
	_, _, err := src.Lookup(context.Background(), "T", "big")
	if !errors.Is(err, emoji.ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge for 16x16 emoji, got %v", err)
	}
}
