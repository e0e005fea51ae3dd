package driving

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// DocumentService manages the user's document history and remote data.
type DocumentService interface {
	// List returns the user's documents, newest upload first.
	List(ctx context.Context) ([]domain.DocumentRecord, error)

	// Transcript returns the persisted conversation for a document.
	Transcript(ctx context.Context, documentID string) ([]domain.ChatMessage, error)

	// Delete removes a document from the remote service, the local
	// history, and its transcript.
	Delete(ctx context.Context, documentID string) error

	// ClearData removes all of the user's documents and transcripts.
	ClearData(ctx context.Context) error

	// DeleteAccount removes the user's account and all associated data.
	DeleteAccount(ctx context.Context) error
}
