package chatsync

// Sender identifies who authored a turn.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Turn is one message of a conversation.
type Turn struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
	// Settled is true once no further streaming updates will be applied.
	// User turns are always settled.
	Settled bool `json:"settled"`
}

// UserTurn returns a settled user turn.
func UserTurn(text string) Turn {
	return Turn{Text: text, Sender: SenderUser, Settled: true}
}

// BotTurn returns a bot turn with the given settledness.
func BotTurn(text string, settled bool) Turn {
	return Turn{Text: text, Sender: SenderBot, Settled: settled}
}

// Transcript is the ordered sequence of turns of the active conversation.
// It is not safe for concurrent use; the session controller serializes access.
type Transcript struct {
	turns []Turn
}

// NewTranscript returns a transcript holding a copy of turns.
func NewTranscript(turns ...Turn) *Transcript {
	t := &Transcript{}
	t.Reset(turns)
	return t
}

// Append adds turn to the end of the transcript.
func (t *Transcript) Append(turn Turn) {
	t.turns = append(t.turns, turn)
}

// ReplaceLastUnsettledBotTurn sets the text of the in-flight bot turn.
// If the most recent bot turn is settled, or there is no bot turn yet,
// a new unsettled bot turn carrying text is appended instead, so a settled
// turn is never rewritten.
func (t *Transcript) ReplaceLastUnsettledBotTurn(text string) {
	if i := t.lastBotIndex(); i >= 0 && !t.turns[i].Settled {
		t.turns[i].Text = text
		return
	}
	t.Append(BotTurn(text, false))
}

// SettleLastBotTurn marks the in-flight bot turn settled.
// It reports false when there was no unsettled bot turn.
func (t *Transcript) SettleLastBotTurn() bool {
	i := t.lastBotIndex()
	if i < 0 || t.turns[i].Settled {
		return false
	}
	t.turns[i].Settled = true
	return true
}

// Turns returns a copy of the turns in conversational order.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Reset replaces the content of the transcript with a copy of turns.
func (t *Transcript) Reset(turns []Turn) {
	t.turns = make([]Turn, len(turns))
	copy(t.turns, turns)
}

// UnsettledCount returns how many turns are still awaiting updates.
func (t *Transcript) UnsettledCount() int {
	n := 0
	for _, turn := range t.turns {
		if !turn.Settled {
			n++
		}
	}
	return n
}

func (t *Transcript) lastBotIndex() int {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Sender == SenderBot {
			return i
		}
	}
	return -1
}
