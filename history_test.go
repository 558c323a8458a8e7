package chatsync

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
	assert.Equal(t, 2, EstimateTokens("日本"))
}

func TestContextWindow_SkipsUnsettledAndSanitizes(t *testing.T) {
	turns := []Turn{
		UserTurn("hi"),
		BotTurn("<think>hmm</think>Hello", true),
		UserTurn("next"),
		BotTurn("partial", false),
	}

	got := ContextWindow(turns, 0, 0)

	assert.Equal(t, []Turn{UserTurn("hi"), BotTurn("Hello", true), UserTurn("next")}, got)
	assert.Equal(t, "<think>hmm</think>Hello", turns[1].Text, "input is not modified")
}

func TestContextWindow_TurnLimit(t *testing.T) {
	turns := []Turn{UserTurn("a"), BotTurn("b", true), UserTurn("c"), BotTurn("d", true)}

	got := ContextWindow(turns, 0, 2)

	assert.Equal(t, []Turn{UserTurn("c"), BotTurn("d", true)}, got)
}

func TestContextWindow_TokenLimitDropsOldest(t *testing.T) {
	long := strings.Repeat("x", 40) // 10 tokens
	turns := []Turn{UserTurn(long), BotTurn(long, true), UserTurn("tiny")}

	got := ContextWindow(turns, 12, 10)

	assert.Equal(t, []Turn{BotTurn(long, true), UserTurn("tiny")}, got)
}
