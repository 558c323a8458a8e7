package chatsync

// ContextWindow selects the settled turns sent to the backend as prior
// context. The turn limit is applied first, then the token limit; the oldest
// turns are dropped until both hold. Non-positive limits disable that bound.
// Bot turns are sent with reasoning markup removed.
func ContextWindow(turns []Turn, tokenLimit, turnLimit int) []Turn {
	window := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if t.Sender == SenderBot && !t.Settled {
			continue
		}
		if t.Sender == SenderBot {
			t.Text = Sanitize(t.Text)
		}
		window = append(window, t)
	}

	if turnLimit > 0 && len(window) > turnLimit {
		window = window[len(window)-turnLimit:]
	}
	if tokenLimit <= 0 {
		return window
	}

	total := 0
	for _, t := range window {
		total += EstimateTokens(t.Text)
	}
	for total > tokenLimit && len(window) > 0 {
		total -= EstimateTokens(window[0].Text)
		window = window[1:]
	}
	return window
}
