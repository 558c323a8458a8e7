package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/creastat/chatsync/archive"
)

var (
	exportFormat string
	exportOutput string
	searchLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the conversation archive",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived conversations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withArchive(cmd, func(a *app, all []archive.Conversation) error {
			printListing(cmd.OutOrStdout(), all)
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <n|id>",
	Short: "Print an archived conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd, func(a *app, all []archive.Conversation) error {
			conv, err := findConversation(all, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%s · saved %s", conv.ID, conv.SavedAt.Local().Format("2006-01-02 15:04"))))
			printTranscript(out, conv.Content)
			return nil
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <n|id>",
	Short: "Export an archived conversation as markdown, json or yaml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := archive.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		return withArchive(cmd, func(a *app, all []archive.Conversation) error {
			conv, err := findConversation(all, args[0])
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if exportOutput != "" {
				f, err := os.Create(exportOutput)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return archive.Export(w, *conv, format)
		})
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find archived conversations similar to a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd, func(a *app, all []archive.Conversation) error {
			results, err := a.archive.Search(cmd.Context(), args[0], searchLimit)
			if err != nil {
				return err
			}
			printListing(cmd.OutOrStdout(), results)
			return nil
		})
	},
}

func init() {
	historyExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Export format (md|json|yaml)")
	historyExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	historySearchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "Maximum number of results")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historySearchCmd)
}

// withArchive opens the configured archive and passes its contents to fn.
func withArchive(cmd *cobra.Command, fn func(a *app, all []archive.Conversation) error) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	all, err := a.archive.LoadAll(cmd.Context())
	if err != nil {
		return err
	}
	return fn(a, all)
}
