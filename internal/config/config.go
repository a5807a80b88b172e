package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port int    `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"development"`

	// CORS
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Auth; an empty list disables API key checks
	APIKeys []string `envconfig:"API_KEYS"`

	// Football data provider
	APIFootballKey     string        `envconfig:"API_FOOTBALL_KEY"`
	APIFootballBaseURL string        `envconfig:"API_FOOTBALL_BASE_URL" default:"https://api-football-v1.p.rapidapi.com/v3"`
	APIFootballHost    string        `envconfig:"API_FOOTBALL_HOST" default:"api-football-v1.p.rapidapi.com"`
	ProviderTimeout    time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"10s"`
	ProviderRPS        float64       `envconfig:"PROVIDER_RPS" default:"5"`
	ProviderBurst      int           `envconfig:"PROVIDER_BURST" default:"10"`
	ProviderMaxRetries int           `envconfig:"PROVIDER_MAX_RETRIES" default:"2"`
	TeamDirectory      string        `envconfig:"TEAM_DIRECTORY"`

	// Prediction
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"15s"`
	CacheBackend string        `envconfig:"CACHE_BACKEND" default:"memory"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"30m"`
	NewsCacheTTL time.Duration `envconfig:"NEWS_CACHE_TTL" default:"10m"`
	NewsFeeds    []string      `envconfig:"NEWS_FEEDS"`
	NewsTimeout  time.Duration `envconfig:"NEWS_TIMEOUT" default:"8s"`

	// Database URLs; each store is optional
	PostgresURL   string `envconfig:"POSTGRES_URL"`
	ClickHouseURL string `envconfig:"CLICKHOUSE_URL"`
	RedisURL      string `envconfig:"REDIS_URL"`

	// Worker pool
	WorkerCount   int           `envconfig:"WORKER_COUNT" default:"2"`
	QueueSize     int           `envconfig:"QUEUE_SIZE" default:"1000"`
	BatchSize     int           `envconfig:"BATCH_SIZE" default:"50"`
	FlushInterval time.Duration `envconfig:"FLUSH_INTERVAL" default:"1s"`

	// Rate limiting
	RateLimitPerSecond float64 `envconfig:"RATE_LIMIT_PER_SECOND" default:"10"`
	RateLimitBurst     int     `envconfig:"RATE_LIMIT_BURST" default:"20"`

	// Telegram
	TelegramToken         string `envconfig:"TELEGRAM_TOKEN"`
	TelegramWebhookSecret string `envconfig:"TELEGRAM_WEBHOOK_SECRET"`
	TelegramMode          string `envconfig:"TELEGRAM_MODE" default:"off"`

	// Scheduler
	WarmupCron string `envconfig:"WARMUP_CRON" default:"*/30 * * * *"`
	Timezone   string `envconfig:"TIMEZONE" default:"UTC"`
}

const (
	TelegramOff     = "off"
	TelegramPolling = "polling"
	TelegramWebhook = "webhook"
)

// Load loads configuration from environment variables.
// It returns an error if the configuration is malformed or inconsistent.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)
	cfg.APIKeys = trimAll(cfg.APIKeys)
	cfg.NewsFeeds = trimAll(cfg.NewsFeeds)
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))
	cfg.TelegramMode = strings.ToLower(strings.TrimSpace(cfg.TelegramMode))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	var errs []error
	switch c.CacheBackend {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			errs = append(errs, errors.New("CACHE_BACKEND=redis requires REDIS_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend))
	}

	switch c.TelegramMode {
	case TelegramOff:
	case TelegramPolling, TelegramWebhook:
		if c.TelegramToken == "" {
			errs = append(errs, fmt.Errorf("TELEGRAM_MODE=%s requires TELEGRAM_TOKEN", c.TelegramMode))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown TELEGRAM_MODE %q", c.TelegramMode))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("FETCH_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether ENV selects production logging.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
