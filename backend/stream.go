// Package backend adapts a token-streaming text generator to the cumulative
// {text, loading} updates the session controller consumes.
package backend

import (
	"context"
	"strings"

	"github.com/creastat/chatsync"
	"github.com/creastat/chatsync/internal/logger"
)

// Request is one prompt plus the prior turns sent as context.
type Request struct {
	Prompt  string
	History []chatsync.Turn
}

// Generator produces a reply for req, calling emit with each new piece of
// text in order. Generate returns once the reply is complete.
type Generator interface {
	Generate(ctx context.Context, req Request, emit func(delta string)) error
}

// Update is the observable state of a generation. Text is cumulative: it
// always holds the whole reply received so far.
type Update struct {
	Text    string
	Loading bool
	Err     error
}

// Stream runs generations and reports them as cumulative updates.
type Stream struct {
	gen Generator
}

// NewStream returns a Stream driven by gen.
func NewStream(gen Generator) *Stream {
	return &Stream{gen: gen}
}

// Submit starts generating a reply to req. The returned channel first yields
// a loading update with no text, then one loading update per delta, then a
// single final update with Loading false, and is then closed.
func (s *Stream) Submit(ctx context.Context, req Request) <-chan Update {
	updates := make(chan Update, 16)

	go func() {
		defer close(updates)

		var acc strings.Builder
		updates <- Update{Loading: true}

		err := s.gen.Generate(ctx, req, func(delta string) {
			if delta == "" {
				return
			}
			acc.WriteString(delta)
			updates <- Update{Text: acc.String(), Loading: true}
		})
		if err != nil {
			logger.Error("generation failed", "error", err, "received", acc.Len())
		}

		updates <- Update{Text: acc.String(), Loading: false, Err: err}
	}()

	return updates
}
