package drivers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// maxUpdateRetries bounds how often Update re-runs after a concurrent write.
const maxUpdateRetries = 5

// RedisStore implements kv.Store using Redis string keys.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-based store.
// A ttl of zero keeps keys without expiry.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get implements kv.Store.
// Refreshes the TTL on every read when one is configured.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	k := s.key(key)
	val, err := s.client.Get(ctx, k).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if s.ttl > 0 {
		_ = s.client.Expire(ctx, k, s.ttl).Err()
	}
	return val, true, nil
}

// Set implements kv.Store.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, s.ttl).Err()
}

// Update implements kv.Updater using WATCH/MULTI/EXEC.
// The transaction is retried when another client writes the key between the
// read and the write.
func (s *RedisStore) Update(ctx context.Context, key string, fn func(string, bool) (string, error)) error {
	k := s.key(key)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, k).Result()
		found := true
		if err == redis.Nil {
			found = false
		} else if err != nil {
			return err
		}

		next, err := fn(current, found)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, s.ttl)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxUpdateRetries; i++ {
		err = s.client.Watch(ctx, txf, k)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

// Close implements kv.Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// key constructs the Redis key for a store key.
func (s *RedisStore) key(key string) string {
	return s.prefix + key
}
