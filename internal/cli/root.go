// Package cli wires the service together behind a cobra command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the travelshare CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "travelshare",
		Short: "Travelshare backend",
		Long:  "Photo sharing service with a DynamoDB-backed social graph.",
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTablesCommand(opts))

	return cmd
}

// newLogger builds the process logger honoring the verbose flag.
func newLogger(opts *RootOptions) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
