// Package drivers holds the concrete kv.Store implementations.
package drivers

import "errors"

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store is closed")
