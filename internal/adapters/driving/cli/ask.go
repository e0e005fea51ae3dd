package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// askWait bounds how long a one-shot question waits for its answer.
var askWait = 2 * time.Minute

// askDocumentID selects the document to ask about.
var askDocumentID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about a document",
	Long: `Ask a single question and print the answer.

Without --document, the question goes to the session's current document;
use --document to pick one from the history first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askDocumentID, "document", "d", "", "Document id to ask about")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireSessionService(); err != nil {
		return err
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	ctx := cmd.Context()

	if err := sessionService.Start(ctx); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	if askDocumentID != "" {
		if err := sessionService.OpenDocument(ctx, askDocumentID); err != nil {
			return fmt.Errorf("opening document: %w", err)
		}
	}

	snap, err := waitSettled(ctx, sessionService, askWait)
	if err != nil {
		return err
	}
	if snap.State != domain.StateActiveReady {
		return domain.ErrNoActiveDocument
	}

	if err := sessionService.Send(ctx, question); err != nil {
		return err
	}

	answer, err := waitAnswer(ctx, askWait)
	if err != nil {
		return err
	}

	cmd.Println(answer)
	return nil
}

// waitAnswer consumes events until the pending query resolves, then
// returns the newest model message.
func waitAnswer(ctx context.Context, timeout time.Duration) (string, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		snap := sessionService.Snapshot()
		if !snap.AwaitingAnswer {
			for i := len(snap.Transcript) - 1; i >= 0; i-- {
				if snap.Transcript[i].Role == domain.RoleAssistant {
					return snap.Transcript[i].Text, nil
				}
			}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline.C:
			return "", fmt.Errorf("timed out waiting for an answer")
		case _, ok := <-sessionService.Events():
			if !ok {
				return "", domain.ErrSessionClosed
			}
		}
	}
}
