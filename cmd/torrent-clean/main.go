// Package main provides the entry point for the torrent-clean CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := runCommand(ctx, newRootCmd())
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// runCommand executes cmd and closes the log file on every outcome; cobra
// skips post-run hooks when RunE fails.
func runCommand(ctx context.Context, cmd *cobra.Command) error {
	defer func() { _ = logging.Close() }()
	return cmd.ExecuteContext(ctx)
}
