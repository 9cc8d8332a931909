package config

import (
	"os"
	"strconv"
	"time"

	"pricetrack-service/internal/domain"
)

type Config struct {
	// Common
	Env        string
	LogLevel   string
	ConfigFile string
	// API
	Port string
	// Storage
	Storage     string
	DatabaseURL string
	SQLitePath  string
	// Provider
	Provider     string
	YahooBaseURL string
	FakePrice    float64
	HTTPRetries  int
	// Poller
	Symbols      []domain.Symbol
	PollInterval time.Duration
	FetchTimeout time.Duration
	// Redis (latest quote cache)
	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func atofDef(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

// Load reads environment variables and applies defaults. The CONFIG_FILE
// overlay is applied separately by LoadFile.
func Load() Config {
	return Config{
		Env:           getEnv("ENV", "local"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ConfigFile:    getEnv("CONFIG_FILE", ""),
		Port:          getEnv("PORT", "8080"),
		Storage:       getEnv("STORAGE", "sqlite"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "prices.db"),
		Provider:      getEnv("PROVIDER", "yahoo"),
		YahooBaseURL:  getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		FakePrice:     atofDef(getEnv("FAKE_PRICE", "100"), 100),
		HTTPRetries:   atoiDef(getEnv("HTTP_RETRIES", "0"), 0),
		Symbols:       domain.ParseSymbols(getEnv("SYMBOLS", "AAPL,MSFT,TSLA")),
		PollInterval:  time.Duration(atoiDef(getEnv("POLL_INTERVAL_MS", "15000"), 15000)) * time.Millisecond,
		FetchTimeout:  time.Duration(atoiDef(getEnv("FETCH_TIMEOUT_MS", "10000"), 10000)) * time.Millisecond,
		CacheBackend:  getEnv("CACHE_BACKEND", "none"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       atoiDef(getEnv("REDIS_DB", "0"), 0),
		CacheTTL:      time.Duration(atoiDef(getEnv("CACHE_TTL_MS", "60000"), 60000)) * time.Millisecond,
	}
}
