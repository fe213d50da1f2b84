package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/qpad/internal/app"
	"github.com/kobzarvs/qpad/internal/editor"
)

var (
	debug          bool
	localClipboard bool
)

var rootCmd = &cobra.Command{
	Use:     "qpad [files...]",
	Short:   editor.Description,
	Long:    editor.Description + "\n\nThe first file is opened; the rest are queued and opened in turn by File > Close.",
	Version: editor.Version,
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return app.New(app.Options{
			Files:          args,
			Debug:          debug,
			LocalClipboard: localClipboard,
		}).Run()
	},
}

func init() {
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Write debug messages to the log file")
	rootCmd.Flags().BoolVar(&localClipboard, "local-clipboard", false, "Keep copied text inside this window")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
