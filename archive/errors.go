package archive

import (
	"errors"
	"fmt"
)

// Common errors for archive operations.
var (
	ErrNotFound = errors.New("conversation not found")
	ErrNoIndex  = errors.New("archive has no search index")
)

// CorruptError reports an archive blob that could not be decoded.
// The stored value is left as it is.
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("archive %q is corrupt: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}
