package chatsync

import (
	"errors"
	"fmt"
)

// Common errors for conversation state operations.
var (
	ErrReplyInFlight = errors.New("a reply is still streaming")
	ErrInvalidPrompt = errors.New("invalid prompt")
)

// ValidationError reports a prompt that failed the input constraints.
// It matches ErrInvalidPrompt with errors.Is.
type ValidationError struct {
	Length  int
	Min     int
	Max     int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid prompt (%d characters): %s", e.Length, e.Message)
}

// Is reports whether target is ErrInvalidPrompt.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidPrompt
}
