package chatsync

import (
	"regexp"
	"strings"
)

var (
	reasoningBlock = regexp.MustCompile(`(?is)<think>.*?</think>`)
	reasoningTail  = regexp.MustCompile(`(?is)<think>.*$`)
)

// UnterminatedPolicy decides what happens to an opening reasoning marker
// that has no closing marker.
type UnterminatedPolicy int

const (
	// StripUnterminated hides everything from the unmatched marker to the end.
	// A streaming reply shows nothing of its reasoning while it is being written.
	StripUnterminated UnterminatedPolicy = iota
	// KeepUnterminated leaves the unmatched marker and the text after it.
	KeepUnterminated
)

// Sanitizer removes backend reasoning markup from reply text.
type Sanitizer struct {
	Unterminated UnterminatedPolicy
}

// Clean removes every <think>...</think> span, case-insensitively and across
// lines, until none remain, applies the unterminated policy and trims
// surrounding whitespace. Clean is idempotent.
func (s Sanitizer) Clean(raw string) string {
	out := raw
	for {
		next := reasoningBlock.ReplaceAllString(out, "")
		if next == out {
			break
		}
		out = next
	}
	if s.Unterminated == StripUnterminated {
		out = reasoningTail.ReplaceAllString(out, "")
	}
	return strings.TrimSpace(out)
}

// Sanitize cleans raw with the default StripUnterminated policy.
func Sanitize(raw string) string {
	return Sanitizer{}.Clean(raw)
}
