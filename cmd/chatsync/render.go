package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/creastat/chatsync"
	"github.com/creastat/chatsync/session"
)

var (
	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	botStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// replyPrinter writes the in-flight reply as it grows. Snapshots are
// cumulative, so only the unseen suffix is printed. When the sanitized text
// stops extending what was printed (a reasoning block just opened), the
// line is redrawn.
type replyPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	printed string
	started bool
}

func newReplyPrinter(w io.Writer) *replyPrinter {
	return &replyPrinter{w: w}
}

// Observe is a session subscriber.
func (p *replyPrinter) Observe(s session.State) {
	if len(s.CurrentChat) == 0 {
		return
	}
	last := s.CurrentChat[len(s.CurrentChat)-1]
	if last.Sender != chatsync.SenderBot {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		if last.Settled {
			return
		}
		p.started = true
		fmt.Fprint(p.w, botStyle.Render("bot")+" ")
	}

	switch {
	case strings.HasPrefix(last.Text, p.printed):
		fmt.Fprint(p.w, last.Text[len(p.printed):])
	default:
		fmt.Fprint(p.w, "\r\033[K"+botStyle.Render("bot")+" "+last.Text)
	}
	p.printed = last.Text

	if last.Settled {
		fmt.Fprintln(p.w)
		p.started = false
		p.printed = ""
	}
}

func printTranscript(w io.Writer, turns []chatsync.Turn) {
	for _, t := range turns {
		label := userStyle.Render("you")
		if t.Sender == chatsync.SenderBot {
			label = botStyle.Render("bot")
		}
		fmt.Fprintf(w, "%s %s\n", label, t.Text)
	}
}
