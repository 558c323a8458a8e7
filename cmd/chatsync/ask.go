package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/creastat/chatsync/session"
)

var askSave bool

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send one prompt and print the reply",
	Long: `Send one prompt and print the reply as it streams.
With --save the exchange is archived like /new does in chat.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askSave, "save", false, "Archive the exchange")
}

func runAsk(cmd *cobra.Command, args []string) error {
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
	done, err := ctrl.Submit(ctx, strings.Join(args, " "))
	if err != nil {
		unsubscribe()
		return err
	}
	<-done
	unsubscribe()

	state := ctrl.State()
	if state.Err != nil {
		return fmt.Errorf("generation failed: %w", state.Err)
	}
	if lastReply(state.CurrentChat) == "" {
		return fmt.Errorf("backend returned an empty reply")
	}
	if !askSave {
		return nil
	}
	if err := ctrl.Dispatch(ctx, session.SaveHistory{}); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render("conversation archived"))
	return nil
}
