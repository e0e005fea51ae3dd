package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// uploadWait bounds how long one-shot commands wait for the remote
// service to index a document.
var uploadWait = 5 * time.Minute

var uploadCmd = &cobra.Command{
	Use:   "upload [path]",
	Short: "Upload a document and start a conversation",
	Long: `Upload a document to the indexing service.

Accepted file types: ` + acceptedTypesLine() + `, up to 50 MiB.
On success the document becomes the active conversation.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func acceptedTypesLine() string {
	line := ""
	for i, ext := range domain.AcceptedExtensions() {
		if i > 0 {
			line += " "
		}
		line += ext
	}
	return line
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := requireSessionService(); err != nil {
		return err
	}

	path := args[0]
	filename := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	// Validate before reading so an oversized file never loads into
	// memory.
	if err := domain.ValidateUpload(filename, info.Size()); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	if err := sessionService.Start(cmd.Context()); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	cmd.Printf("Uploading %s...\n", filename)
	if err := sessionService.Upload(cmd.Context(), filename, data); err != nil {
		return err
	}

	snap, err := waitSettled(cmd.Context(), sessionService, uploadWait)
	if err != nil {
		return err
	}
	if snap.State != domain.StateActiveReady || snap.Active == nil {
		return fmt.Errorf("upload of %s failed", filename)
	}

	cmd.Printf("Uploaded as %s (document %s). Run 'docchat ask' to start asking questions.\n",
		snap.Active.Record.Filename, snap.Active.Record.ID)
	return nil
}

// waitSettled consumes session events until the upload or activation
// pipeline reaches a terminal state.
func waitSettled(ctx context.Context, session driving.Session, timeout time.Duration) (driving.SessionSnapshot, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		snap := session.Snapshot()
		switch snap.State {
		case domain.StateUploading, domain.StateActivatingIndex, domain.StateRestoring:
			// Still in flight.
		default:
			return snap, nil
		}

		select {
		case <-ctx.Done():
			return driving.SessionSnapshot{}, ctx.Err()
		case <-deadline.C:
			return driving.SessionSnapshot{}, fmt.Errorf("timed out waiting for the index service")
		case _, ok := <-session.Events():
			if !ok {
				return driving.SessionSnapshot{}, domain.ErrSessionClosed
			}
		}
	}
}
