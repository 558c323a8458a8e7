package kv

import (
	"fmt"

	"github.com/creastat/chatsync/kv/drivers"
)

// StoreType represents the type of key-value store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeSQLite StoreType = "sqlite"
)

// NewStore creates a new Store based on the given type.
// Redis requires WithRedisClient, SQLite requires WithSQLitePath.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}

	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return drivers.NewInMemoryStore(config.keyPrefix), nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return drivers.NewRedisStore(config.redisClient, config.keyPrefix, config.redisTTL), nil

	case StoreTypeSQLite:
		if config.sqlitePath == "" {
			return nil, ErrInvalidConfig
		}
		store, err := drivers.OpenSQLiteStore(config.sqlitePath, config.keyPrefix)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStoreType, storeType)
	}
}

// Compile-time checks that the drivers implement Store and Updater.
var (
	_ Store   = (*drivers.InMemoryStore)(nil)
	_ Updater = (*drivers.InMemoryStore)(nil)
	_ Store   = (*drivers.RedisStore)(nil)
	_ Updater = (*drivers.RedisStore)(nil)
	_ Store   = (*drivers.SQLiteStore)(nil)
	_ Updater = (*drivers.SQLiteStore)(nil)
)
