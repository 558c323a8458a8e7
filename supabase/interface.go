package supabase

import (
	"context"
	"time"
)

// Store is the subset of kv.Store served by a Supabase table.
type Store interface {
	// Get retrieves the value stored under key; ok is false when absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set upserts the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Close closes the Supabase client and releases resources
	Close() error
}

// Entry is one row of the key-value table.
//
//	create table kv_entries (
//	  key        text primary key,
//	  value      text not null,
//	  updated_at timestamptz not null default now()
//	);
type Entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
