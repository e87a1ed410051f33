// Package cache provides the ephemeral key/value store backing the
// broadcaster-ID lookup cache and plugin-presence keys described in
// SPEC_FULL.md's ambient stack expansion. Grounded on the teacher's
// AI/shared/cache package (Cache interface, memory and Redis
// implementations selected by a Config.Type switch), generalized from a
// generic byte-slice cache into one with typed helpers for the two
// concrete uses this process has.
package cache

import (
	"context"
	"time"
)

// Cache is the interface every cache implementation satisfies.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
	Close() error
}

// Config selects and configures a Cache implementation.
type Config struct {
	// Type is "redis" or "memory".
	Type string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MaxSize    int
	DefaultTTL time.Duration
}

// DefaultConfig is an in-process memory cache with a 5 minute default TTL.
func DefaultConfig() *Config {
	return &Config{Type: "memory", MaxSize: 10000, DefaultTTL: 5 * time.Minute}
}

// RedisConfig builds a Config pointed at a Redis instance.
func RedisConfig(addr string) *Config {
	return &Config{Type: "redis", RedisAddr: addr, DefaultTTL: 5 * time.Minute}
}

// New builds a Cache from config, defaulting to an in-memory cache when
// config is nil or Type is unset.
func New(config *Config) (Cache, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Type == "redis" {
		return newRedisCache(config)
	}
	return newMemoryCache(config), nil
}
