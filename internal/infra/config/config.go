package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the notifier service and the
// background worker. Both binaries load the same struct; each uses the
// fields relevant to it.
type AppConfig struct {
	DatabaseURL string
	RedisAddr   string

	HTTPAddr   string
	WorkerAddr string

	LogLevel    string
	Environment string

	// Cron specs driving the scheduler loop.
	CronSpecSweep     string // Reminder sweep cadence.
	CronSpecRetention string // Daily dedup retention purge.

	DedupRetentionDays int

	// Worker-side settings.
	TelegramToken    string // Optional; without it the worker renders to the log only.
	DefaultChatID    int64  // Firm-wide chat for notifications with no recipient.
	OriginURL        string // Base URL the worker prefetches assets from and proxies to.
	APIPrefix        string // Request paths containing this are never cached.
	BackendHost      string // Known local backend host:port, also passed through.
	CacheVersion     string
	CacheDir         string
	SyncCheckSeconds int
	SyncEndpointPath string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables, and a missing
	// .env file is not an error.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.WorkerAddr = getEnv("WORKER_ADDR", ":8081")

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))

	cfg.CronSpecSweep = getEnv("CRON_SPEC_SWEEP", "*/15 * * * *")
	cfg.CronSpecRetention = getEnv("CRON_SPEC_RETENTION", "30 3 * * *")

	var err error
	cfg.DedupRetentionDays, err = getEnvInt("DEDUP_RETENTION_DAYS", 30)
	if err != nil {
		return nil, err
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	chatIDStr := os.Getenv("DEFAULT_CHAT_ID")
	if chatIDStr != "" {
		cfg.DefaultChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_CHAT_ID: %w", err)
		}
	}

	cfg.OriginURL = getEnv("ORIGIN_URL", "http://localhost:8080")
	cfg.APIPrefix = getEnv("API_PREFIX", "/api/")
	cfg.BackendHost = getEnv("BACKEND_HOST", "localhost:8080")
	cfg.CacheVersion = getEnv("CACHE_VERSION", "1")
	cfg.CacheDir = getEnv("CACHE_DIR", "cache")
	cfg.SyncEndpointPath = getEnv("SYNC_ENDPOINT_PATH", "/api/sync")

	cfg.SyncCheckSeconds, err = getEnvInt("SYNC_CHECK_SECONDS", 30)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
