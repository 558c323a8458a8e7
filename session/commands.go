package session

import "github.com/creastat/chatsync"

// Command is one of the state-changing commands the controller accepts.
// The set is closed: only the types in this file implement it.
type Command interface {
	// Name returns the wire name of the command, e.g. "@save_history".
	Name() string
	command()
}

// CurrentChat replaces the current transcript. Every turn is taken as settled.
type CurrentChat struct {
	Turns []chatsync.Turn
}

// SaveHistory archives the current transcript and starts a new one.
type SaveHistory struct{}

// LoadMessages refreshes the listing of archived conversations.
type LoadMessages struct{}

// LoadChat replaces the current transcript with an archived one.
type LoadChat struct {
	Turns []chatsync.Turn
}

func (CurrentChat) Name() string  { return "@current_chat" }
func (SaveHistory) Name() string  { return "@save_history" }
func (LoadMessages) Name() string { return "@load_messages" }
func (LoadChat) Name() string     { return "@load_chat" }

func (CurrentChat) command()  {}
func (SaveHistory) command()  {}
func (LoadMessages) command() {}
func (LoadChat) command()     {}
