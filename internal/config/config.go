// Package config loads chatsync settings from defaults, an optional YAML
// file, CHATSYNC_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CHATSYNC_STORE_TYPE.
const EnvPrefix = "CHATSYNC"

// DefaultFile is the config file looked up when no path is given.
const DefaultFile = "chatsync"

// Config is the complete set of chatsync settings.
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Backend BackendConfig `mapstructure:"backend"`
	Window  WindowConfig  `mapstructure:"window"`
	Index   IndexConfig   `mapstructure:"index"`
	Log     LogConfig     `mapstructure:"log"`
}

// StoreConfig selects the durable medium behind the archive.
type StoreConfig struct {
	Type      string         `mapstructure:"type"`
	KeyPrefix string         `mapstructure:"key_prefix"`
	Redis     RedisConfig    `mapstructure:"redis"`
	SQLite    SQLiteConfig   `mapstructure:"sqlite"`
	Supabase  SupabaseConfig `mapstructure:"supabase"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type SupabaseConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	Table  string `mapstructure:"table"`
}

type ArchiveConfig struct {
	Key string `mapstructure:"key"`
}

// BackendConfig points at an OpenAI-compatible chat completions endpoint.
type BackendConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

// WindowConfig bounds the prior turns sent with each prompt.
type WindowConfig struct {
	Tokens int `mapstructure:"tokens"`
	Turns  int `mapstructure:"turns"`
}

// IndexConfig selects the vector index used for archive search.
// Type "none" disables search.
type IndexConfig struct {
	Type      string       `mapstructure:"type"`
	Dimension int          `mapstructure:"dimension"`
	Qdrant    QdrantConfig `mapstructure:"qdrant"`
}

type QdrantConfig struct {
	URL        string `mapstructure:"url"`
	APIKey     string `mapstructure:"api_key"`
	Collection string `mapstructure:"collection"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.type", "sqlite")
	v.SetDefault("store.key_prefix", "chatsync:")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.sqlite.path", "chatsync.db")
	v.SetDefault("store.supabase.url", "")
	v.SetDefault("store.supabase.api_key", "")
	v.SetDefault("store.supabase.table", "kv_entries")

	v.SetDefault("archive.key", "history")

	v.SetDefault("backend.base_url", "http://localhost:11434/v1")
	v.SetDefault("backend.api_key", "")
	v.SetDefault("backend.model", "llama3.2")
	v.SetDefault("backend.system_prompt", "")

	v.SetDefault("window.tokens", 4096)
	v.SetDefault("window.turns", 20)

	v.SetDefault("index.type", "memory")
	v.SetDefault("index.dimension", 256)
	v.SetDefault("index.qdrant.url", "http://localhost:6334")
	v.SetDefault("index.qdrant.api_key", "")
	v.SetDefault("index.qdrant.collection", "chatsync_archive")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads settings into a Config. An explicit path must exist; without
// one, chatsync.yaml is read from the working directory if present.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
