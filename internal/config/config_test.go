package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, "chatsync.db", cfg.Store.SQLite.Path)
	assert.Equal(t, "history", cfg.Archive.Key)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Backend.BaseURL)
	assert.Equal(t, 4096, cfg.Window.Tokens)
	assert.Equal(t, 20, cfg.Window.Turns)
	assert.Equal(t, "memory", cfg.Index.Type)
	assert.Equal(t, 256, cfg.Index.Dimension)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  type: redis
  redis:
    addr: cache:6379
    db: 2
backend:
  model: qwen3
window:
  turns: 6
`), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Store.Type)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, "qwen3", cfg.Backend.Model)
	assert.Equal(t, 6, cfg.Window.Turns)
	assert.Equal(t, 4096, cfg.Window.Tokens)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chatsync.yaml"), []byte("archive:\n  key: saved\n"), 0o600))
	t.Chdir(dir)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "saved", cfg.Archive.Key)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CHATSYNC_STORE_TYPE", "memory")
	t.Setenv("CHATSYNC_BACKEND_MODEL", "mistral")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, "mistral", cfg.Backend.Model)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
