package driven

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// TranscriptStore is an ordered, append-only per-(user, document) message
// log with live subscriptions. The store is the source of truth for
// transcript content and ordering: subscribers receive full snapshots and
// never merge incrementally.
type TranscriptStore interface {
	// Append adds a message to the end of the transcript.
	Append(ctx context.Context, key domain.TranscriptKey, msg domain.ChatMessage) error

	// Messages returns the current ordered snapshot of the transcript.
	Messages(ctx context.Context, key domain.TranscriptKey) ([]domain.ChatMessage, error)

	// Subscribe opens a live subscription for the transcript. The initial
	// snapshot is delivered first, then a fresh snapshot after every
	// append. The caller must Close the subscription when done.
	Subscribe(ctx context.Context, key domain.TranscriptKey) (TranscriptSubscription, error)

	// DeleteTranscript removes the transcript for a document.
	DeleteTranscript(ctx context.Context, key domain.TranscriptKey) error
}

// TranscriptSubscription is a live, cancellable view of one transcript.
type TranscriptSubscription interface {
	// Updates delivers full ordered snapshots. The channel is closed
	// by Close; no update is ever delivered after Close returns.
	Updates() <-chan []domain.ChatMessage

	// Close stops delivery and releases the subscription.
	Close()
}
