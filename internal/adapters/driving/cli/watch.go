package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/dropfolder"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a folder and upload documents dropped into it",
	Long: `Watch a directory and upload every supported document that appears
in it. Files that fail validation are skipped with a log line.

The watcher runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireSessionService(); err != nil {
		return err
	}

	if err := sessionService.Start(cmd.Context()); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	watcher, err := dropfolder.New(args[0], sessionService)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	cmd.Printf("Watching %s for documents. Press Ctrl+C to stop.\n", args[0])

	if err := watcher.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
