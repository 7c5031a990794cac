// Package cli implements the railvos command-line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
}

// Logger builds the process logging sink honoring the verbosity flag.
func (o *RootOptions) Logger() *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewRootCommand creates the root command for the railvos CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "railvos",
		Short:        "railvos - VOS utilities for the train communication stack",
		Long:         "Inspect and exercise the VOS concurrency substrate: unique identifiers, timestamps, and cyclic task execution.",
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewIDCommand(opts))
	cmd.AddCommand(NewTimeCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))

	return cmd
}
