// Package session owns the state of the active chat session: the current
// transcript, the listing of archived conversations, and the submission
// path that streams a reply into the transcript.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/creastat/chatsync"
	"github.com/creastat/chatsync/archive"
	"github.com/creastat/chatsync/backend"
	"github.com/creastat/chatsync/internal/logger"
)

// ErrUnknownCommand is returned by Dispatch for a command it cannot handle.
// It signals a programming error.
var ErrUnknownCommand = errors.New("unknown command")

// State is a snapshot of the session.
type State struct {
	// Messages lists the archived conversations as of the last load.
	Messages []archive.Conversation
	// CurrentChat is the transcript of the active conversation.
	CurrentChat []chatsync.Turn
	// Busy is true while a reply is streaming.
	Busy bool
	// Err is the error that ended the last generation, if any.
	// It is cleared by the next Submit.
	Err error
}

// Controller serializes every event touching the session state.
// Subscribers are called after each change, outside the lock.
type Controller struct {
	mu          sync.Mutex
	archive     *archive.Archive
	stream      *backend.Stream
	transcript  *chatsync.Transcript
	reconciler  *chatsync.Reconciler
	messages    []archive.Conversation
	lastErr     error
	subscribers map[int]func(State)
	nextSubID   int

	windowTokens int
	windowTurns  int
}

// Option configures a Controller.
type Option func(*Controller)

// WithContextWindow bounds the prior turns sent with each prompt.
func WithContextWindow(tokens, turns int) Option {
	return func(c *Controller) {
		c.windowTokens = tokens
		c.windowTurns = turns
	}
}

// New returns a controller with an empty transcript and listing.
func New(arch *archive.Archive, stream *backend.Stream, opts ...Option) *Controller {
	transcript := chatsync.NewTranscript()
	c := &Controller{
		archive:      arch,
		stream:       stream,
		transcript:   transcript,
		reconciler:   chatsync.NewReconciler(transcript),
		messages:     []archive.Conversation{},
		subscribers:  make(map[int]func(State)),
		windowTokens: 4096,
		windowTurns:  20,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn to receive the state after every change and
// returns a function that removes it.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// State returns a copy of the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Busy reports whether a reply is streaming.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconciler.Busy()
}

// Dispatch applies cmd to the session state.
// CurrentChat, SaveHistory and LoadChat fail with chatsync.ErrReplyInFlight
// while a reply is streaming.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) error {
	c.mu.Lock()
	err := c.dispatchLocked(ctx, cmd)
	state, subs := c.stateLocked(), c.subscribersLocked()
	c.mu.Unlock()

	if cmd != nil {
		logger.Debug("command dispatched", "command", cmd.Name(), "error", err)
	}
	notify(subs, state)
	return err
}

func (c *Controller) dispatchLocked(ctx context.Context, cmd Command) error {
	switch cmd := cmd.(type) {
	case CurrentChat:
		if c.reconciler.Busy() {
			return chatsync.ErrReplyInFlight
		}
		c.transcript.Reset(settledTurns(cmd.Turns))
		return nil

	case SaveHistory:
		if c.reconciler.Busy() {
			return chatsync.ErrReplyInFlight
		}
		conv, err := c.archive.Append(ctx, c.transcript.Turns())
		if err != nil {
			return err
		}
		if conv == nil {
			return nil
		}
		c.transcript.Reset(nil)
		return c.loadMessagesLocked(ctx)

	case LoadMessages:
		return c.loadMessagesLocked(ctx)

	case LoadChat:
		if c.reconciler.Busy() {
			return chatsync.ErrReplyInFlight
		}
		c.transcript.Reset(settledTurns(cmd.Turns))
		return nil

	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

// loadMessagesLocked re-reads the archive listing. A corrupt archive leaves
// an empty listing and returns the *archive.CorruptError.
func (c *Controller) loadMessagesLocked(ctx context.Context) error {
	all, err := c.archive.LoadAll(ctx)
	var corrupt *archive.CorruptError
	if err != nil && !errors.As(err, &corrupt) {
		return err
	}
	c.messages = all
	return err
}

// Submit validates text, appends it with a placeholder reply and starts
// streaming the reply into the placeholder. The returned channel is closed
// once the reply has settled.
func (c *Controller) Submit(ctx context.Context, text string) (<-chan struct{}, error) {
	if err := chatsync.ValidatePrompt(text); err != nil {
		return nil, err
	}

	c.mu.Lock()
	history := chatsync.ContextWindow(c.transcript.Turns(), c.windowTokens, c.windowTurns)
	if err := c.reconciler.Submit(text); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.lastErr = nil
	state, subs := c.stateLocked(), c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, state)

	updates := c.stream.Submit(ctx, backend.Request{Prompt: text, History: history})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range updates {
			c.apply(u)
		}
	}()
	return done, nil
}

// apply folds one backend update into the transcript.
func (c *Controller) apply(u backend.Update) {
	c.mu.Lock()
	changed := false
	if u.Loading {
		c.reconciler.OnBusy()
		changed = c.reconciler.OnSnapshot(u.Text)
	} else {
		c.reconciler.OnSnapshot(u.Text)
		changed = c.reconciler.OnBackendIdle()
		if u.Err != nil {
			c.lastErr = u.Err
			changed = true
		}
	}
	state, subs := c.stateLocked(), c.subscribersLocked()
	c.mu.Unlock()

	if changed {
		notify(subs, state)
	}
}

func (c *Controller) stateLocked() State {
	messages := make([]archive.Conversation, len(c.messages))
	for i, m := range c.messages {
		messages[i] = m.Clone()
	}
	return State{
		Messages:    messages,
		CurrentChat: c.transcript.Turns(),
		Busy:        c.reconciler.Busy(),
		Err:         c.lastErr,
	}
}

// settledTurns copies turns with every turn settled. A transcript swapped in
// from outside has no reply streaming into it.
func settledTurns(turns []chatsync.Turn) []chatsync.Turn {
	out := make([]chatsync.Turn, len(turns))
	for i, t := range turns {
		t.Settled = true
		out[i] = t
	}
	return out
}

func (c *Controller) subscribersLocked() []func(State) {
	subs := make([]func(State), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(State), state State) {
	for _, fn := range subs {
		fn(state)
	}
}
