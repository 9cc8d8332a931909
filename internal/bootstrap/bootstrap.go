package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"pricetrack-service/internal/application"
	"pricetrack-service/internal/config"
	infraconfig "pricetrack-service/internal/infrastructure/config"
	"pricetrack-service/internal/infrastructure/httpx"
	"pricetrack-service/internal/infrastructure/logx"
	"pricetrack-service/internal/infrastructure/pg"
	"pricetrack-service/internal/infrastructure/provider"
	redisstore "pricetrack-service/internal/infrastructure/redis"
	"pricetrack-service/internal/infrastructure/sqlite"
	"pricetrack-service/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrMissingDBURL = errors.New("DATABASE_URL is required for STORAGE=pg")
	ErrNoSymbols    = errors.New("no symbols configured")
)

const userAgent = "pricetrack-service/1.0"

// LoadConfig reads the environment and applies the CONFIG_FILE overlay
// when one is set.
func LoadConfig() (config.Config, error) {
	cfg := config.Load()
	if cfg.ConfigFile != "" {
		if err := config.LoadFile(cfg.ConfigFile, &cfg); err != nil {
			return config.Config{}, err
		}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = infraconfig.DefaultPollInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = infraconfig.DefaultFetchTimeout
	}
	if cfg.HTTPRetries < 0 {
		cfg.HTTPRetries = 0
	}
	if len(cfg.Symbols) == 0 {
		return config.Config{}, ErrNoSymbols
	}
	return cfg, nil
}

// BuildStore opens the configured backend, applies migrations and wraps it
// in the Redis cache when CACHE_BACKEND=redis. The returned cleanup closes
// everything it opened.
func BuildStore(ctx context.Context, cfg config.Config) (application.QuoteStore, func(), error) {
	log := logx.L()

	var store application.QuoteStore
	switch cfg.Storage {
	case "", "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, func() {}, err
		}
		if err := sqlite.RunMigrations(db); err != nil {
			db.Close()
			return nil, func() {}, err
		}
		log.Info("store.opened", zap.String("backend", "sqlite"), zap.String("path", cfg.SQLitePath))
		store = sqlite.NewQuoteStore(db)
	case "pg":
		if cfg.DatabaseURL == "" {
			return nil, func() {}, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, func() {}, err
		}
		log.Info("store.opened", zap.String("backend", "pg"))
		store = pg.NewQuoteStore(db)
	default:
		return nil, func() {}, fmt.Errorf("unsupported STORAGE=%q", cfg.Storage)
	}

	switch cfg.CacheBackend {
	case "", "none":
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		log.Info("store.cache_enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
		store = redisstore.New(store, client, cfg.CacheTTL)
	default:
		store.Close()
		return nil, func() {}, fmt.Errorf("unsupported CACHE_BACKEND=%q", cfg.CacheBackend)
	}

	cleanup := func() {
		log.Info("closing store")
		store.Close()
	}
	return store, cleanup, nil
}

// BuildPriceSource returns the adapter selected by PROVIDER.
func BuildPriceSource(cfg config.Config) (application.PriceSource, error) {
	switch cfg.Provider {
	case "", "yahoo":
		return &provider.Yahoo{
			BaseURL: cfg.YahooBaseURL,
			Client: &httpx.Client{
				HTTP:      &http.Client{Timeout: infraconfig.DefaultHTTPTimeout},
				UserAgent: userAgent,
				Retries:   uint64(cfg.HTTPRetries),
			},
			Log: logx.L(),
		}, nil
	case "fake":
		return provider.NewFake(cfg.FakePrice, cfg.FakePrice/100, 1), nil
	default:
		return nil, fmt.Errorf("unsupported PROVIDER=%q", cfg.Provider)
	}
}

func BuildPoller(cfg config.Config, source application.PriceSource, store application.QuoteStore) *worker.Poller {
	return worker.NewPoller(worker.Config{
		Symbols:      cfg.Symbols,
		Interval:     cfg.PollInterval,
		FetchTimeout: cfg.FetchTimeout,
	}, source, store, worker.WithLogger(logx.L()))
}

// InitWorker builds the store, price source and poller for cmd/worker.
func InitWorker(ctx context.Context, cfg config.Config) (application.Worker, func(), error) {
	store, cleanup, err := BuildStore(ctx, cfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("build store: %w", err)
	}
	source, err := BuildPriceSource(cfg)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("build price source: %w", err)
	}
	return BuildPoller(cfg, source, store), cleanup, nil
}

// InitAPI builds the query service over the configured store for cmd/api.
func InitAPI(ctx context.Context, cfg config.Config) (*application.QueryService, func(), error) {
	store, cleanup, err := BuildStore(ctx, cfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("build store: %w", err)
	}
	return application.NewQueryService(store), cleanup, nil
}
