// Package cmd wires the command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "lineglot",
	Short:   "Webhook-driven group chat translation relay",
	Long:    "lineglot receives chat webhook events, detects the source language of each message and relays translations to the languages configured for the conversation.",
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
