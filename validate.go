package chatsync

import (
	"fmt"
	"unicode/utf8"
)

// Prompt length bounds, in characters.
const (
	MinPromptLength = 3
	MaxPromptLength = 200
)

// ValidatePrompt checks the length of text a user wants to submit.
// It returns a *ValidationError when text is outside the bounds.
func ValidatePrompt(text string) error {
	n := utf8.RuneCountInString(text)
	switch {
	case n < MinPromptLength:
		return &ValidationError{
			Length:  n,
			Min:     MinPromptLength,
			Max:     MaxPromptLength,
			Message: fmt.Sprintf("message must be at least %d characters", MinPromptLength),
		}
	case n > MaxPromptLength:
		return &ValidationError{
			Length:  n,
			Min:     MinPromptLength,
			Max:     MaxPromptLength,
			Message: "message is too long",
		}
	}
	return nil
}
