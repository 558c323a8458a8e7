package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/creastat/chatsync/archive"
	"github.com/creastat/chatsync/backend"
	"github.com/creastat/chatsync/internal/config"
	"github.com/creastat/chatsync/internal/logger"
	"github.com/creastat/chatsync/kv"
	"github.com/creastat/chatsync/session"
	"github.com/creastat/chatsync/supabase"
	"github.com/creastat/chatsync/vectorstore"
	"github.com/creastat/chatsync/vectorstore/qdrant"
)

// app holds the components shared by every subcommand.
type app struct {
	cfg     *config.Config
	store   kv.Store
	index   vectorstore.VectorStore
	archive *archive.Archive
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	opts := []archive.Option{archive.WithKey(cfg.Archive.Key)}
	index, err := openIndex(ctx, cfg.Index)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if index != nil {
		embedder := vectorstore.HashEmbedder{Dim: cfg.Index.Dimension}
		opts = append(opts, archive.WithIndex(archive.NewIndex(index, embedder, cfg.Archive.Key)))
	}

	a := &app{
		cfg:     cfg,
		store:   store,
		index:   index,
		archive: archive.New(store, opts...),
	}
	if cfg.Index.Type == "memory" {
		if err := a.archive.Reindex(ctx); err != nil {
			logger.Warn("archive search unavailable", "error", err)
		}
	}

	logger.Debug("app initialized", "store", cfg.Store.Type, "index", cfg.Index.Type)
	return a, nil
}

// controller builds a session controller with the configured backend.
func (a *app) controller() (*session.Controller, error) {
	gen, err := backend.NewOpenAIGenerator(backend.OpenAIConfig{
		BaseURL:      a.cfg.Backend.BaseURL,
		APIKey:       a.cfg.Backend.APIKey,
		Model:        a.cfg.Backend.Model,
		SystemPrompt: a.cfg.Backend.SystemPrompt,
	})
	if err != nil {
		return nil, err
	}
	return session.New(a.archive, backend.NewStream(gen),
		session.WithContextWindow(a.cfg.Window.Tokens, a.cfg.Window.Turns)), nil
}

func (a *app) Close() error {
	var errs []error
	if a.index != nil {
		errs = append(errs, a.index.Close())
	}
	errs = append(errs, a.store.Close())
	return errors.Join(errs...)
}

func openStore(cfg config.StoreConfig) (kv.Store, error) {
	switch cfg.Type {
	case string(kv.StoreTypeMemory):
		return kv.NewStore(kv.StoreTypeMemory, kv.WithKeyPrefix(cfg.KeyPrefix))

	case string(kv.StoreTypeRedis):
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return kv.NewStore(kv.StoreTypeRedis,
			kv.WithRedisClient(client),
			kv.WithKeyPrefix(cfg.KeyPrefix))

	case string(kv.StoreTypeSQLite):
		return kv.NewStore(kv.StoreTypeSQLite,
			kv.WithSQLitePath(cfg.SQLite.Path),
			kv.WithKeyPrefix(cfg.KeyPrefix))

	case "supabase":
		client, err := supabase.New(supabase.Config{
			URL:       cfg.Supabase.URL,
			APIKey:    cfg.Supabase.APIKey,
			Table:     cfg.Supabase.Table,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, fmt.Errorf("%w: %s", kv.ErrInvalidStoreType, cfg.Type)
	}
}

// openIndex returns nil when search is disabled.
func openIndex(ctx context.Context, cfg config.IndexConfig) (vectorstore.VectorStore, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil

	case "memory":
		return vectorstore.NewMemoryStore(), nil

	case "qdrant":
		client, err := qdrant.New(qdrant.Config{
			URL:            cfg.Qdrant.URL,
			CollectionName: cfg.Qdrant.Collection,
			APIKey:         cfg.Qdrant.APIKey,
			Dimension:      cfg.Dimension,
		})
		if err != nil {
			return nil, err
		}
		if err := client.EnsureCollection(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown index type %q", cfg.Type)
	}
}
