package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_Success(t *testing.T) {
	configPath := writeConfig(t, `port: 9090
database:
  type: sqlite
  connectionString: "file:emodi.db"
cache:
  redisAddr: "localhost:6379"
  ttl: 10m
rateLimit:
  limit: 5
  window: 30s
publisher:
  type: minio
  baseURL: "https://cdn.example.com/emodi"
  prefix: results
  minio:
    endpoint: "localhost:9000"
    bucket: emodi
fonts:
  - name: "Noto Sans JP Regular"
    path: "/usr/share/fonts/NotoSansJP-Regular.otf"
trigger: "@bot"
channel: C123
defaultEmojis:
  party: "1f973.png"
emojis:
  - team: T1
    name: parrot
    url: "https://example.com/parrot.gif"
`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != 9090 {
		t.Errorf("Expected port to be 9090, got %d", config.Port)
	}
	if config.Database.ConnectionString != "file:emodi.db" {
		t.Errorf("Expected connectionString 'file:emodi.db', got '%s'", config.Database.ConnectionString)
	}
	if config.Cache.TTL != 10*time.Minute {
		t.Errorf("Expected cache ttl 10m, got %s", config.Cache.TTL)
	}
	if config.RateLimit.Limit != 5 || config.RateLimit.Window != 30*time.Second {
		t.Errorf("Unexpected rate limit %+v", config.RateLimit)
	}
	if config.Publisher.Minio.Bucket != "emodi" {
		t.Errorf("Expected minio bucket 'emodi', got '%s'", config.Publisher.Minio.Bucket)
	}
	if len(config.Fonts) != 1 || config.Fonts[0].Name != "Noto Sans JP Regular" {
		t.Errorf("Unexpected fonts %+v", config.Fonts)
	}
	if config.Trigger != "@bot" || config.Channel != "C123" {
		t.Errorf("Unexpected trigger %q or channel %q", config.Trigger, config.Channel)
	}
	if config.DefaultEmojis["party"] != "1f973.png" {
		t.Errorf("Expected default emoji party, got %v", config.DefaultEmojis)
	}
	if len(config.Emojis) != 1 || config.Emojis[0].Name != "parrot" {
		t.Errorf("Unexpected emojis %+v", config.Emojis)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "port: 8081\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Database.Type != "sqlite" || config.Database.ConnectionString != ":memory:" {
		t.Errorf("Unexpected database defaults %+v", config.Database)
	}
	if config.Publisher.Type != PublisherDatabase {
		t.Errorf("Expected publisher %s, got %s", PublisherDatabase, config.Publisher.Type)
	}
	if config.Publisher.BaseURL != "http://localhost:8081" {
		t.Errorf("Unexpected base url %s", config.Publisher.BaseURL)
	}
	if config.Trigger != "@emodi" {
		t.Errorf("Expected trigger @emodi, got %s", config.Trigger)
	}
	if config.Cache.TTL != time.Hour {
		t.Errorf("Expected cache ttl 1h, got %s", config.Cache.TTL)
	}
	if !strings.Contains(config.DefaultEmojiURL, "%s") {
		t.Errorf("Default emoji url lacks placeholder: %s", config.DefaultEmojiURL)
	}
	if config.MaxDecodePixels != emoji.DefaultMaxPixels {
		t.Errorf("Expected decode budget %d, got %d", emoji.DefaultMaxPixels, config.MaxDecodePixels)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown publisher",
			content: "publisher:\n  type: ftp\n",
			wantErr: "unsupported publisher type",
		},
		{
			name:    "minio without bucket",
			content: "publisher:\n  type: minio\n  minio:\n    endpoint: localhost:9000\n",
			wantErr: "requires endpoint and bucket",
		},
		{
			name:    "duplicate font",
			content: "fonts:\n  - name: a\n    path: /a.ttf\n  - name: a\n    path: /b.ttf\n",
			wantErr: "duplicate font name",
		},
		{
			name:    "font without path",
			content: "fonts:\n  - name: a\n",
			wantErr: "has empty path",
		},
		{
			name:    "emoji without url",
			content: "emojis:\n  - team: T1\n    name: x\n",
			wantErr: "needs team, name and url",
		},
		{
			name:    "default url without placeholder",
			content: "defaultEmojiURL: https://example.com/emoji.png\n",
			wantErr: "placeholder",
		},
		{
			name:    "negative rate limit",
			content: "rateLimit:\n  limit: -1\n",
			wantErr: "must not be negative",
		},
		{
			name:    "negative decode budget",
			content: "maxDecodePixels: -1\n",
			wantErr: "maxDecodePixels must not be negative",
		},
		{
			name:    "otlp without endpoint",
			content: "tracing:\n  exporter: otlp\n",
			wantErr: "requires otlpEndpoint",
		},
		{
			name:    "sample ratio above one",
			content: "tracing:\n  exporter: stdout\n  sampleRatio: 1.5\n",
			wantErr: "sampleRatio must be between 0 and 1",
		},
		{
			name:    "unknown trace exporter",
			content: "tracing:\n  exporter: zipkin\n",
			wantErr: "unsupported trace exporter",
		},
		{
			name:    "malformed yaml",
			content: "port: [",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
			if config != nil {
				t.Error("Expected config to be nil on error")
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	nonExistentPath := "/path/that/does/not/exist/config.yaml"

	config, err := LoadConfig(nonExistentPath)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if config != nil {
		t.Error("Expected config to be nil when file doesn't exist")
	}
}

func TestDefaultConfig(t *testing.T) {
	config, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig failed: %v", err)
	}
	if config.Port != 8080 || config.Trigger != "@emodi" {
		t.Errorf("unexpected defaults: port %d, trigger %s", config.Port, config.Trigger)
	}
}
