package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 8080 || cfg.CacheBackend != "memory" || cfg.TelegramMode != TelegramOff {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.CacheTTL != 30*time.Minute || cfg.FetchTimeout != 15*time.Second {
		t.Errorf("unexpected durations %v %v", cfg.CacheTTL, cfg.FetchTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_KEYS", "alpha, beta ,")
	t.Setenv("NEWS_FEEDS", "official=https://club.example/{team},bbc=https://bbc.example/feed")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PROVIDER_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9090 || cfg.ProviderRPS != 2.5 || cfg.CacheBackend != "redis" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if strings.Join(cfg.APIKeys, "|") != "alpha|beta" {
		t.Errorf("unexpected api keys %q", cfg.APIKeys)
	}
	if len(cfg.NewsFeeds) != 2 {
		t.Errorf("unexpected feeds %v", cfg.NewsFeeds)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"redis without url", map[string]string{"CACHE_BACKEND": "redis"}, "REDIS_URL"},
		{"unknown backend", map[string]string{"CACHE_BACKEND": "memcached"}, "CACHE_BACKEND"},
		{"telegram without token", map[string]string{"TELEGRAM_MODE": "polling"}, "TELEGRAM_TOKEN"},
		{"unknown telegram mode", map[string]string{"TELEGRAM_MODE": "carrier-pigeon"}, "TELEGRAM_MODE"},
		{"bad port", map[string]string{"PORT": "70000"}, "PORT"},
		{"unparsable duration", map[string]string{"CACHE_TTL": "soon"}, "CACHE_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}
