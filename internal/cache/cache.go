// Package cache provides the prediction cache backends: an in-process TTL
// map and Redis.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Cache is a byte-value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// NewRedisClient parses a redis:// URL into a client. It does not connect.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// New picks the backend. A redis backend that cannot be reached at startup
// falls back to memory so predictions keep being cached in-process.
func New(ctx context.Context, backend string, rdb *redis.Client, logger *zap.Logger) Cache {
	log := logger.Sugar()
	if strings.EqualFold(backend, BackendRedis) {
		if rdb == nil {
			log.Warnw("Redis cache requested without a client, using memory cache")
			return NewMemoryCache(time.Minute)
		}
		rc := NewRedisCache(rdb)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			log.Warnw("Redis unreachable, falling back to memory cache", "error", err)
			return NewMemoryCache(time.Minute)
		}
		log.Infow("Using redis cache")
		return rc
	}
	log.Infow("Using memory cache")
	return NewMemoryCache(time.Minute)
}
