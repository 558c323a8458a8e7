package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/creastat/chatsync"
	"github.com/creastat/chatsync/archive"
	"github.com/creastat/chatsync/internal/logger"
	"github.com/creastat/chatsync/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat",
	Long: `Start an interactive chat. Slash commands:
  /new        archive the current conversation and start a new one
  /history    list archived conversations
  /load <n>   continue archived conversation n
  /quit       leave without archiving`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

const historyFileName = ".chatsync_history"

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl, err := a.controller()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	unsubscribe := ctrl.Subscribe(newReplyPrinter(out).Observe)
	defer unsubscribe()

	if err := ctrl.Dispatch(ctx, session.LoadMessages{}); err != nil {
		fmt.Fprintln(out, errorStyle.Render("archive unreadable: "+err.Error()))
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := lineHistoryPath()
	if f, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("chatsync · model %s · /new to archive, /quit to leave", a.cfg.Backend.Model)))

	for {
		input, err := line.Prompt("you> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			quit, err := runSlash(ctx, out, ctrl, input)
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		done, err := ctrl.Submit(ctx, input)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(err.Error()))
			continue
		}
		<-done
		if err := ctrl.State().Err; err != nil {
			fmt.Fprintln(out, errorStyle.Render("generation failed: "+err.Error()))
		}
	}
}

// runSlash executes one slash command and reports whether to leave the REPL.
func runSlash(ctx context.Context, out io.Writer, ctrl *session.Controller, input string) (bool, error) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil

	case "/new":
		if len(ctrl.State().CurrentChat) == 0 {
			fmt.Fprintln(out, dimStyle.Render("nothing to archive"))
			return false, nil
		}
		if err := ctrl.Dispatch(ctx, session.SaveHistory{}); err != nil {
			return false, err
		}
		fmt.Fprintln(out, dimStyle.Render("conversation archived"))
		return false, nil

	case "/history":
		if err := ctrl.Dispatch(ctx, session.LoadMessages{}); err != nil {
			return false, err
		}
		printListing(out, ctrl.State().Messages)
		return false, nil

	case "/load":
		if len(fields) != 2 {
			return false, errors.New("usage: /load <n>")
		}
		messages := ctrl.State().Messages
		conv, err := findConversation(messages, fields[1])
		if err != nil {
			return false, err
		}
		if err := ctrl.Dispatch(ctx, session.LoadChat{Turns: conv.Content}); err != nil {
			return false, err
		}
		printTranscript(out, ctrl.State().CurrentChat)
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}

// findConversation resolves ref as a 1-based listing position or an id.
func findConversation(all []archive.Conversation, ref string) (*archive.Conversation, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(all) {
			return nil, fmt.Errorf("no conversation %d (have %d)", n, len(all))
		}
		return &all[n-1], nil
	}
	for i := range all {
		if all[i].ID == ref {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", archive.ErrNotFound, ref)
}

func lineHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Debug("no home directory for line history", "error", err)
		return historyFileName
	}
	return filepath.Join(home, historyFileName)
}

func printListing(out io.Writer, all []archive.Conversation) {
	if len(all) == 0 {
		fmt.Fprintln(out, dimStyle.Render("no archived conversations"))
		return
	}
	for i, c := range all {
		fmt.Fprintf(out, "%3d  %s  %s %s\n",
			i+1,
			userStyle.Render(truncate(c.Title, 60)),
			dimStyle.Render(fmt.Sprintf("(%d turns)", len(c.Content))),
			dimStyle.Render(c.ID))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// lastReply is the text of the last bot turn, for non-interactive output.
func lastReply(turns []chatsync.Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Sender == chatsync.SenderBot {
			return turns[i].Text
		}
	}
	return ""
}
