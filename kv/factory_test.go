package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	memory, err := NewStore(StoreTypeMemory, WithKeyPrefix("test:"))
	require.NoError(t, err)
	redisStore, err := NewStore(StoreTypeRedis, WithRedisClient(client), WithKeyPrefix("test:"))
	require.NoError(t, err)
	sqliteStore, err := NewStore(StoreTypeSQLite, WithSQLitePath(filepath.Join(t.TempDir(), "kv.db")))
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": memory,
		"redis":  redisStore,
		"sqlite": sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStores_AbsentKey(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			value, ok, err := s.Get(context.Background(), "history")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, value)
		})
	}
}

func TestStores_SetGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "history", `[{"id":"1"}]`))
			require.NoError(t, s.Set(ctx, "history", `[{"id":"2"}]`))

			value, ok, err := s.Get(ctx, "history")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"2"}]`, value)
		})
	}
}

func TestStores_Update(t *testing.T) {
	ctx := context.Background()
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Update(ctx, s, "counter", func(current string, ok bool) (string, error) {
				assert.False(t, ok)
				return "a", nil
			}))
			require.NoError(t, Update(ctx, s, "counter", func(current string, ok bool) (string, error) {
				assert.True(t, ok)
				return current + "b", nil
			}))

			value, _, err := s.Get(ctx, "counter")
			require.NoError(t, err)
			assert.Equal(t, "ab", value)
		})
	}
}

func TestStores_UpdateAbortLeavesValue(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "history", "keep"))

			err := Update(ctx, s, "history", func(string, bool) (string, error) {
				return "", boom
			})
			assert.ErrorIs(t, err, boom)

			value, _, err := s.Get(ctx, "history")
			require.NoError(t, err)
			assert.Equal(t, "keep", value)
		})
	}
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s, err := NewStore(StoreTypeRedis, WithRedisClient(client), WithKeyPrefix("chatsync:"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(context.Background(), "history", "[]"))

	got, err := mr.Get("chatsync:history")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

// plainStore hides the Updater implementation of the wrapped store.
type plainStore struct{ Store }

func TestUpdate_FallsBackToGetSet(t *testing.T) {
	ctx := context.Background()
	inner, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	s := plainStore{inner}

	require.NoError(t, Update(ctx, s, "k", func(current string, ok bool) (string, error) {
		return "v", nil
	}))

	value, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestNewStore_InvalidConfig(t *testing.T) {
	_, err := NewStore(StoreTypeRedis)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewStore(StoreTypeSQLite)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewStore("etcd")
	assert.ErrorIs(t, err, ErrInvalidStoreType)
}

func TestInMemoryStore_Closed(t *testing.T) {
	s, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, _, err = s.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, s.Set(context.Background(), "k", "v"))
}
