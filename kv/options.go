package kv

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// StoreOption is a functional option for configuring a store.
type StoreOption func(*storeConfig)

// storeConfig holds configuration for stores.
type storeConfig struct {
	redisClient *redis.Client
	redisTTL    time.Duration
	keyPrefix   string
	sqlitePath  string
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the TTL for Redis keys. Zero keeps keys forever.
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}

// WithKeyPrefix namespaces every key written by the store.
func WithKeyPrefix(prefix string) StoreOption {
	return func(c *storeConfig) {
		c.keyPrefix = prefix
	}
}

// WithSQLitePath sets the database file for the SQLite store.
func WithSQLitePath(path string) StoreOption {
	return func(c *storeConfig) {
		c.sqlitePath = path
	}
}
