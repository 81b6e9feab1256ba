package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

const (
	PublisherDatabase = "database"
	PublisherMinio    = "minio"

	defaultPort            = 8080
	defaultTrigger         = "@emodi"
	defaultCacheTTL        = time.Hour
	defaultTransformWindow = 30 * time.Second
	defaultEmojiURL        = "https://raw.githubusercontent.com/iamcal/emoji-data/master/img-apple-64/%s"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

// Cache configures redis. An empty address disables caching and rate limiting.
type Cache struct {
	RedisAddr string        `yaml:"redisAddr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	TTL       time.Duration `yaml:"ttl"`
}

type RateLimit struct {
	// Limit is the number of commands per user and window; 0 disables the limit.
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

type Minio struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSSL"`
	// PublicURL is where chat clients load published emoji from.
	PublicURL  string `yaml:"publicURL"`
	PublicRead bool   `yaml:"publicRead"`
}

type Publisher struct {
	Type    string `yaml:"type"`
	BaseURL string `yaml:"baseURL"`
	Prefix  string `yaml:"prefix"`
	Minio   Minio  `yaml:"minio"`
}

type Font struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// CatalogEmoji seeds the custom emoji catalog of a team.
type CatalogEmoji struct {
	Team string `yaml:"team"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type ServiceConfig struct {
	Port      int       `yaml:"port"`
	Database  Database  `yaml:"database"`
	Cache     Cache     `yaml:"cache"`
	RateLimit RateLimit `yaml:"rateLimit"`
	Publisher Publisher `yaml:"publisher"`
	Tracing   Tracing   `yaml:"tracing"`
	Fonts     []Font    `yaml:"fonts"`
	// ThinkAsset optionally replaces the built-in thinking hand with an image file.
	ThinkAsset string `yaml:"thinkAsset"`
	// Trigger prefixes chat messages addressed to the bot.
	Trigger string `yaml:"trigger"`
	// Channel restricts the bot to one channel when set.
	Channel          string            `yaml:"channel"`
	Maintainer       string            `yaml:"maintainer"`
	DefaultEmojiURL  string            `yaml:"defaultEmojiURL"`
	DefaultEmojis    map[string]string `yaml:"defaultEmojis"`
	Emojis           []CatalogEmoji    `yaml:"emojis"`
	DownloadTimeout  time.Duration     `yaml:"downloadTimeout"`
	TransformTimeout time.Duration     `yaml:"transformTimeout"`
	// MaxDecodePixels bounds width x height x frames of a downloaded emoji.
	MaxDecodePixels int64 `yaml:"maxDecodePixels"`
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() (*ServiceConfig, error) {
	var config ServiceConfig
	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *ServiceConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.ConnectionString == "" {
		c.Database.ConnectionString = ":memory:"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = defaultCacheTTL
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Publisher.Type == "" {
		c.Publisher.Type = PublisherDatabase
	}
	if c.Publisher.BaseURL == "" {
		c.Publisher.BaseURL = fmt.Sprintf("http://localhost:%d", c.Port)
	}
	if c.Trigger == "" {
		c.Trigger = defaultTrigger
	}
	if c.Maintainer == "" {
		c.Maintainer = "the maintainer"
	}
	if c.DefaultEmojiURL == "" {
		c.DefaultEmojiURL = defaultEmojiURL
	}
	if c.TransformTimeout == 0 {
		c.TransformTimeout = defaultTransformWindow
	}
	if c.MaxDecodePixels == 0 {
		c.MaxDecodePixels = emoji.DefaultMaxPixels
	}
}

func (c *ServiceConfig) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	if c.RateLimit.Limit < 0 || c.RateLimit.Window < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.TransformTimeout < 0 || c.DownloadTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.MaxDecodePixels < 0 {
		return fmt.Errorf("maxDecodePixels must not be negative")
	}
	if strings.Count(c.DefaultEmojiURL, "%s") != 1 {
		return fmt.Errorf("defaultEmojiURL must contain exactly one %%s placeholder")
	}

	switch c.Publisher.Type {
	case PublisherDatabase:
	case PublisherMinio:
		if c.Publisher.Minio.Endpoint == "" || c.Publisher.Minio.Bucket == "" {
			return fmt.Errorf("minio publisher requires endpoint and bucket")
		}
	default:
		return fmt.Errorf("unsupported publisher type: %s", c.Publisher.Type)
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sampleRatio must be between 0 and 1")
	}
	switch c.Tracing.exporterName() {
	case "none", "stdout":
	case "otlp":
		if c.Tracing.OTLPEndpoint == "" {
			return fmt.Errorf("otlp tracing requires otlpEndpoint")
		}
	default:
		return fmt.Errorf("unsupported trace exporter: %s", c.Tracing.Exporter)
	}

	if err := validateFonts(c.Fonts); err != nil {
		return err
	}
	return validateEmojis(c.Emojis)
}

// validateFonts ensures all font configurations have required fields
func validateFonts(fonts []Font) error {
	seenNames := make(map[string]bool)

	for i, font := range fonts {
		if font.Name == "" {
			return fmt.Errorf("font at index %d has empty name", i)
		}
		if font.Path == "" {
			return fmt.Errorf("font %s has empty path", font.Name)
		}
		if seenNames[font.Name] {
			return fmt.Errorf("duplicate font name: %s", font.Name)
		}
		seenNames[font.Name] = true
	}

	return nil
}

func validateEmojis(emojis []CatalogEmoji) error {
	seen := make(map[string]bool)

	for i, e := range emojis {
		if e.Team == "" || e.Name == "" || e.URL == "" {
			return fmt.Errorf("emoji at index %d needs team, name and url", i)
		}
		key := e.Team + "/" + e.Name
		if seen[key] {
			return fmt.Errorf("duplicate emoji %s for team %s", e.Name, e.Team)
		}
		seen[key] = true
	}

	return nil
}
