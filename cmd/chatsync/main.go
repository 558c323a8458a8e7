// Package main provides the chatsync CLI: an interactive chat against an
// OpenAI-compatible backend with a persistent conversation archive.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
