// Package emojisource resolves an emoji name for a team to an emoji value:
// custom team emoji first (following one alias), then the default set.
package emojisource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/jo-hoe/emodi/internal/backend/cache"
	"github.com/jo-hoe/emodi/internal/backend/database"
	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

const aliasPrefix = "alias:"

// Catalog returns the URL registered for a team's custom emoji, or
// database.ErrNotFound.
type Catalog interface {
	GetEmojiURL(ctx context.Context, team, name string) (string, error)
}

type Config struct {
	// DefaultURL is a format string receiving a default emoji file name.
	DefaultURL string
	// Defaults maps default emoji names to file names.
	Defaults map[string]string
	Timeout  time.Duration
	MaxBytes int64
	// MaxPixels bounds the decoded size of one emoji, frames included.
	MaxPixels int64
}

type Source struct {
	catalog    Catalog
	cache      cache.Cache
	httpClient *http.Client
	defaultURL string
	defaults   map[string]string
	maxBytes   int64
	maxPixels  int64
}

func New(catalog Catalog, c cache.Cache, cfg Config) *Source {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 8 << 20
	}
	if c == nil {
		c = cache.NoopCache{}
	}

	return &Source{
		catalog:    catalog,
		cache:      c,
		httpClient: &http.Client{Timeout: timeout},
		defaultURL: cfg.DefaultURL,
		defaults:   cfg.Defaults,
		maxBytes:   maxBytes,
		maxPixels:  cfg.MaxPixels,
	}
}

// Lookup returns the emoji called name for team. ok is false when neither
// the team catalog nor the default set knows the name.
func (s *Source) Lookup(ctx context.Context, team, name string) (emoji.Emoji, bool, error) {
	url, ok, err := s.resolve(ctx, team, name)
	if err != nil || !ok {
		return nil, ok, err
	}

	entry, err := s.fetch(ctx, url)
	if err != nil {
		return nil, false, err
	}
	e, err := emoji.DecodeLimited(entry.Data, entry.ContentType, s.maxPixels)
	if err != nil {
		return nil, false, fmt.Errorf("emoji %s: %w", name, err)
	}
	return e, true, nil
}

// resolve maps a name to the URL to download.
func (s *Source) resolve(ctx context.Context, team, name string) (string, bool, error) {
	if s.catalog != nil {
		url, err := s.catalog.GetEmojiURL(ctx, team, name)
		switch {
		case err == nil:
			target, isAlias := strings.CutPrefix(url, aliasPrefix)
			if !isAlias {
				return url, true, nil
			}
			slog.Debug("following emoji alias", "team", team, "name", name, "target", target)
			aliased, err := s.catalog.GetEmojiURL(ctx, team, target)
			if errors.Is(err, database.ErrNotFound) {
				return "", false, nil
			}
			if err != nil {
				return "", false, fmt.Errorf("look up alias %s: %w", target, err)
			}
			return aliased, true, nil
		case !errors.Is(err, database.ErrNotFound):
			return "", false, fmt.Errorf("look up emoji %s: %w", name, err)
		}
	}

	file, ok := s.defaults[name]
	if !ok || s.defaultURL == "" {
		return "", false, nil
	}
	return fmt.Sprintf(s.defaultURL, file), true, nil
}

func (s *Source) fetch(ctx context.Context, url string) (*cache.Entry, error) {
	if entry, ok, err := s.cache.Get(ctx, url); err != nil {
		slog.Warn("emoji cache unavailable", "error", err)
	} else if ok {
		slog.Debug("emoji cache hit", "url", url)
		return entry, nil
	}

	entry, err := s.download(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, url, entry); err != nil {
		slog.Warn("failed to cache emoji", "url", url, "error", err)
	}
	return entry, nil
}

func (s *Source) download(ctx context.Context, url string) (*cache.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("download %s: emoji exceeds %d bytes", url, s.maxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	slog.Debug("downloaded emoji",
		"url", url,
		"content_type", contentType,
		"size_bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds())
	return &cache.Entry{ContentType: contentType, Data: data}, nil
}
