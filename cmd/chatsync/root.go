package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/creastat/chatsync/internal/config"
	"github.com/creastat/chatsync/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "chatsync",
	Short: "Chat with a local model and keep an archive of conversations",
	Long: `chatsync streams replies from an OpenAI-compatible backend (Ollama by default),
strips reasoning blocks from them and archives finished conversations.`,
	SilenceUsage: true,
	RunE:         runChat,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file [default: ./chatsync.yaml]")
	flags.String("log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String("log-file", "", "Write logs to file instead of stderr")
	flags.String("store", "", "Archive store (memory|redis|sqlite|supabase)")
	flags.String("model", "", "Backend model name")

	bindFlag("log.level", "log-level")
	bindFlag("log.file", "log-file")
	bindFlag("store.type", "store")
	bindFlag("backend.model", "model")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)

	cobra.OnInitialize(initConfig)
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
		os.Exit(1)
	}
}

func initConfig() {
	var err error
	cfg, err = config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}
