package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pricetrack-service/internal/config"
	"pricetrack-service/internal/domain"
	"pricetrack-service/internal/infrastructure/provider"
	redisstore "pricetrack-service/internal/infrastructure/redis"
	"pricetrack-service/internal/infrastructure/worker"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Storage:      "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "prices.db"),
		Provider:     "fake",
		FakePrice:    100,
		Symbols:      []domain.Symbol{"AAPL"},
		PollInterval: time.Second,
		FetchTimeout: time.Second,
		CacheBackend: "none",
	}
}

func TestLoadConfigAppliesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols: [nvda, amd]\npoll_interval: 2s\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SYMBOLS", "AAPL")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []domain.Symbol{"NVDA", "AMD"}, cfg.Symbols)
	require.Equal(t, 2*time.Second, cfg.PollInterval)
}

func TestLoadConfigBadFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRejectsEmptySymbols(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SYMBOLS", " , ,")
	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrNoSymbols)
}

func TestBuildStoreSQLite(t *testing.T) {
	ctx := context.Background()
	store, cleanup, err := BuildStore(ctx, sqliteConfig(t))
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, store.Ping(ctx))
	id, err := store.Insert(ctx, "AAPL", 100, 1.5)
	require.NoError(t, err)
	q, err := store.Latest(ctx, "AAPL")
	require.NoError(t, err)
	require.Equal(t, id, q.ID)
}

func TestBuildStoreWithRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := sqliteConfig(t)
	cfg.CacheBackend = "redis"
	cfg.RedisAddr = mr.Addr()
	cfg.CacheTTL = time.Minute

	store, cleanup, err := BuildStore(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	_, ok := store.(*redisstore.CachedStore)
	require.True(t, ok)

	_, err = store.Insert(context.Background(), "AAPL", 100, 1.5)
	require.NoError(t, err)
	require.True(t, mr.Exists("quote:latest:AAPL"))
}

func TestBuildStoreErrors(t *testing.T) {
	ctx := context.Background()

	_, _, err := BuildStore(ctx, config.Config{Storage: "pg"})
	require.ErrorIs(t, err, ErrMissingDBURL)

	_, _, err = BuildStore(ctx, config.Config{Storage: "mongo"})
	require.Error(t, err)

	cfg := sqliteConfig(t)
	cfg.CacheBackend = "memcached"
	_, _, err = BuildStore(ctx, cfg)
	require.Error(t, err)
}

func TestBuildPriceSource(t *testing.T) {
	src, err := BuildPriceSource(config.Config{Provider: "fake", FakePrice: 42})
	require.NoError(t, err)
	_, ok := src.(*provider.Fake)
	require.True(t, ok)
	p, ok := src.Fetch(context.Background(), "AAPL")
	require.True(t, ok)
	require.Equal(t, 42.0, p)

	src, err = BuildPriceSource(config.Config{Provider: "yahoo", YahooBaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	y, ok := src.(*provider.Yahoo)
	require.True(t, ok)
	require.Equal(t, uint64(0), y.Client.Retries)

	_, err = BuildPriceSource(config.Config{Provider: "bloomberg"})
	require.Error(t, err)
}

func TestInitWorkerAndAPIShareStore(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	w, cleanup, err := InitWorker(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()

	poller, ok := w.(*worker.Poller)
	require.True(t, ok)
	rep := poller.RunCycle(ctx)
	require.Equal(t, []domain.Symbol{"AAPL"}, rep.Saved)

	svc, cleanupAPI, err := InitAPI(ctx, cfg)
	require.NoError(t, err)
	defer cleanupAPI()

	require.NoError(t, svc.Ready(ctx))
	q, err := svc.Latest(ctx, "aapl")
	require.NoError(t, err)
	require.Equal(t, 100.0, q.Price)
}
