// Package kv defines the string key-value store the conversation archive is
// persisted in, and constructs its drivers.
package kv

import (
	"context"
	"errors"
)

// Common errors for store construction.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStoreType = errors.New("invalid store type")
)

// Store holds string values under string keys.
type Store interface {
	// Get returns the value stored under key.
	// ok is false when the key is absent; that is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases any resources held by the store.
	Close() error
}

// UpdateFunc computes the new value of a key from its current value.
// ok is false when the key is absent. Returning an error aborts the update
// and leaves the stored value untouched.
type UpdateFunc = func(current string, ok bool) (string, error)

// Updater is implemented by stores that can run a read-modify-write of a
// single key atomically with respect to other writers.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Update runs fn against key, atomically when s implements Updater and as a
// plain Get followed by Set otherwise.
func Update(ctx context.Context, s Store, key string, fn UpdateFunc) error {
	if u, ok := s.(Updater); ok {
		return u.Update(ctx, key, fn)
	}

	current, found, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	next, err := fn(current, found)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, next)
}
