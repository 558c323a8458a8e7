package supabase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/supabase-community/supabase-go"
)

// DefaultTable is the table used when Config.Table is empty.
const DefaultTable = "kv_entries"

// Config holds Supabase connection configuration
type Config struct {
	URL       string
	APIKey    string
	Table     string        // Default: kv_entries
	KeyPrefix string        // Prepended to every key, e.g. "chatsync:"
	CacheTTL  time.Duration // Default: 5 minutes; negative disables the cache
}

// Client implements the Store interface using a Supabase table.
type Client struct {
	client   *supabase.Client
	table    string
	prefix   string
	cache    *cache
	cacheTTL time.Duration
}

// cache keeps recently read and written values.
// This process is the only writer, so entries it set stay valid until they expire.
type cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	value     string
	found     bool
	expiresAt time.Time
}

// New creates a new Supabase client
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		client:   client,
		table:    cfg.Table,
		prefix:   cfg.KeyPrefix,
		cacheTTL: cfg.CacheTTL,
		cache:    newCache(),
	}, nil
}

func newCache() *cache {
	return &cache{entries: make(map[string]*cacheEntry)}
}

// Get retrieves the value stored under key.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	key = c.key(key)
	if e := c.getFromCache(key); e != nil {
		return e.value, e.found, nil
	}

	var rows []Entry
	_, err := c.client.From(c.table).
		Select("key,value,updated_at", "", false).
		Eq("key", key).
		ExecuteTo(&rows)
	if err != nil {
		return "", false, fmt.Errorf("failed to get %q: %w", key, err)
	}

	if len(rows) == 0 {
		c.addToCache(key, "", false)
		return "", false, nil
	}

	c.addToCache(key, rows[0].Value, true)
	return rows[0].Value, true, nil
}

// Set upserts value under key.
func (c *Client) Set(ctx context.Context, key, value string) error {
	key = c.key(key)
	row := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}

	_, _, err := c.client.From(c.table).
		Upsert(row, "key", "minimal", "").
		Execute()
	if err != nil {
		c.dropFromCache(key)
		return fmt.Errorf("failed to set %q: %w", key, err)
	}

	c.addToCache(key, value, true)
	return nil
}

// Close closes the Supabase client
func (c *Client) Close() error {
	// Supabase client doesn't require explicit close
	return nil
}

func (c *Client) key(key string) string {
	return c.prefix + key
}

// getFromCache returns a live cache entry or nil.
func (c *Client) getFromCache(key string) *cacheEntry {
	if c.cacheTTL < 0 {
		return nil
	}
	c.cache.mu.RLock()
	defer c.cache.mu.RUnlock()

	if e, ok := c.cache.entries[key]; ok && time.Now().Before(e.expiresAt) {
		return e
	}
	return nil
}

// addToCache records the current state of key.
func (c *Client) addToCache(key, value string, found bool) {
	if c.cacheTTL < 0 {
		return
	}
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	c.cache.entries[key] = &cacheEntry{
		value:     value,
		found:     found,
		expiresAt: time.Now().Add(c.cacheTTL),
	}
}

func (c *Client) dropFromCache(key string) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	delete(c.cache.entries, key)
}

// Compile-time check that Client implements Store
var _ Store = (*Client)(nil)
