package chatsync

import "unicode/utf8"

// EstimateTokens returns a rough token count for text.
// ASCII runes count a quarter token each, anything wider counts a full token,
// so English lands near 4 characters per token and CJK near 1.
func EstimateTokens(text string) int {
	quarters := 0
	for _, r := range text {
		if r < utf8.RuneSelf {
			quarters++
		} else {
			quarters += 4
		}
	}
	return (quarters + 3) / 4
}
