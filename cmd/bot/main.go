package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "promptbot",
	Short: "Interactive prompt bot",
	Long:  "Runs the prompt bot on Telegram, Discord or Slack as selected by PLATFORM.",
	RunE:  runServe,

	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
