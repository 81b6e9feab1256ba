package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jo-hoe/emodi/internal/backend/assets"
	"github.com/jo-hoe/emodi/internal/backend/cache"
	"github.com/jo-hoe/emodi/internal/backend/database"
	"github.com/jo-hoe/emodi/internal/backend/emodi"
	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/emojisource"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
	"github.com/jo-hoe/emodi/internal/backend/fonts"
	"github.com/jo-hoe/emodi/internal/backend/publish"
	"github.com/jo-hoe/emodi/internal/backend/ratelimit"
)

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	redisClient     redis.UniversalClient
	engine          *emodi.Engine
	publisher       publish.Publisher
	limiter         ratelimit.Limiter
	metrics         *Metrics
	trigger         *regexp.Regexp
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	databaseService, err := getDatabaseService(config)
	if err != nil {
		return nil, err
	}
	service := &CoreService{
		config:          config,
		databaseService: databaseService,
		metrics:         newMetrics(),
		trigger:         triggerPattern(config.Trigger),
	}
	if err := service.init(); err != nil {
		service.Close()
		return nil, err
	}
	return service, nil
}

func (service *CoreService) init() error {
	ctx := context.Background()
	config := service.config

	if err := service.seedCatalog(ctx); err != nil {
		return err
	}

	var emojiCache cache.Cache = cache.NoopCache{}
	service.limiter = ratelimit.Unlimited{}
	if config.Cache.RedisAddr != "" {
		client, err := getRedisClient(ctx, config.Cache)
		if err != nil {
			return err
		}
		service.redisClient = client

		redisCache, err := cache.NewRedisCache(client, config.Cache.TTL, "")
		if err != nil {
			return fmt.Errorf("failed to initialize cache: %w", err)
		}
		emojiCache = redisCache

		if config.RateLimit.Limit > 0 {
			limiter, err := ratelimit.NewRedisFixedWindow(client, config.RateLimit.Limit, config.RateLimit.Window, "")
			if err != nil {
				return fmt.Errorf("failed to initialize rate limiter: %w", err)
			}
			service.limiter = limiter
		}
	} else if config.RateLimit.Limit > 0 {
		slog.Warn("rate limit configured without redis, commands are not limited")
	}

	env, err := getFilterEnv(config)
	if err != nil {
		return err
	}

	source := emojisource.New(service.databaseService, emojiCache, emojisource.Config{
		DefaultURL: config.DefaultEmojiURL,
		Defaults:   defaultEmojiFiles(config.DefaultEmojis),
		Timeout:    config.DownloadTimeout,
		MaxPixels:  config.MaxDecodePixels,
	})
	service.engine = emodi.NewEngine(nil, source, env)

	publisher, err := getPublisher(ctx, config.Publisher, service.databaseService)
	if err != nil {
		return err
	}
	service.publisher = publisher

	slog.Info("core service initialized",
		"filters", len(service.engine.Registry().GetRegisteredNames()),
		"publisher", config.Publisher.Type,
		"redis", config.Cache.RedisAddr != "")
	return nil
}

// Metrics returns the collectors shared with the HTTP layer.
func (service *CoreService) Metrics() *Metrics {
	return service.metrics
}

// Transform runs a command for team and returns the resulting emoji. Errors
// are *filterstructure.Error values.
func (service *CoreService) Transform(ctx context.Context, team, text string) (emoji.Emoji, error) {
	ctx, cancel := context.WithTimeout(ctx, service.config.TransformTimeout)
	defer cancel()

	start := time.Now()
	result, err := service.engine.Run(ctx, team, text)
	if err != nil {
		service.metrics.observeTransformation(filterstructure.KindOf(err).String(), 0, time.Since(start))
		return nil, err
	}
	service.metrics.observeTransformation("ok", result.FrameCount(), time.Since(start))
	return result, nil
}

// Publish stores e and returns the URL it can be loaded from.
func (service *CoreService) Publish(ctx context.Context, e emoji.Emoji) (string, error) {
	return service.publisher.Publish(ctx, e)
}

// GetPublished returns a result stored by the database publisher.
func (service *CoreService) GetPublished(ctx context.Context, id string) (*database.Published, error) {
	return service.databaseService.GetPublished(ctx, id)
}

// FilterInfo describes a registered filter.
type FilterInfo struct {
	Name      string   `json:"name"`
	Arguments []string `json:"arguments"`
	Signature string   `json:"signature"`
}

// ListFilters returns the registered filters sorted by name.
func (service *CoreService) ListFilters() []FilterInfo {
	registry := service.engine.Registry()
	names := registry.GetRegisteredNames()
	infos := make([]FilterInfo, 0, len(names))
	for _, name := range names {
		filter, ok := registry.Lookup(name)
		if !ok {
			continue
		}
		arguments := make([]string, len(filter.Arguments))
		for i, kind := range filter.Arguments {
			arguments[i] = kind.String()
		}
		infos = append(infos, FilterInfo{Name: name, Arguments: arguments, Signature: filter.Signature()})
	}
	return infos
}

func (service *CoreService) Close() {
	var errs []error
	if service.databaseService != nil {
		errs = append(errs, service.databaseService.Close())
	}
	if service.redisClient != nil {
		errs = append(errs, service.redisClient.Close())
	}
	if err := errors.Join(errs...); err != nil {
		slog.Error("failed to close core service", "error", err)
	}
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

func getRedisClient(ctx context.Context, config Cache) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", config.RedisAddr, err)
	}
	slog.Info("redis connected", "addr", config.RedisAddr)
	return client, nil
}

func getFilterEnv(config *ServiceConfig) (*filterstructure.Env, error) {
	sources := make([]fonts.Source, len(config.Fonts))
	for i, font := range config.Fonts {
		sources[i] = fonts.Source{Name: font.Name, Path: font.Path}
	}

	hand, err := assets.NewThinkingHand(config.ThinkAsset)
	if err != nil {
		return nil, err
	}

	return &filterstructure.Env{
		Text:  fonts.NewSFNTRenderer(sources),
		Think: hand,
		Now:   time.Now,
	}, nil
}

func getPublisher(ctx context.Context, config Publisher, db database.DatabaseService) (publish.Publisher, error) {
	switch config.Type {
	case PublisherMinio:
		store, err := publish.NewMinioStore(publish.MinioConfig{
			Endpoint:   config.Minio.Endpoint,
			AccessKey:  config.Minio.AccessKey,
			SecretKey:  config.Minio.SecretKey,
			Bucket:     config.Minio.Bucket,
			UseSSL:     config.Minio.UseSSL,
			PublicURL:  config.Minio.PublicURL,
			PublicRead: config.Minio.PublicRead,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return publish.NewObjectStorePublisher(store, config.Prefix), nil
	case PublisherDatabase:
		return publish.NewDatabasePublisher(db, config.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported publisher type: %s", config.Type)
	}
}
