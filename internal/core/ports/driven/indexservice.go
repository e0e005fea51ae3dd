package driven

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// IndexService is the remote indexing and question-answering service.
// It is consumed as an opaque collaborator: uploads produce document
// records, LoadIndex activates a document's index for subsequent queries,
// and Query answers against whichever index was last loaded for the user.
type IndexService interface {
	// Upload sends raw file bytes for indexing and returns the resulting
	// document record. Implementations fill in a missing filename from
	// the client-observed one and a missing upload timestamp with the
	// current time, so callers always receive a complete record.
	Upload(ctx context.Context, userID, filename string, data []byte) (*domain.DocumentRecord, error)

	// LoadIndex activates a previously uploaded document's index so
	// subsequent queries answer against it.
	LoadIndex(ctx context.Context, userID, documentID string) error

	// Query asks a question against the currently loaded index and
	// returns the answer text.
	Query(ctx context.Context, userID, question string) (string, error)

	// DeleteFile removes an uploaded document from the service.
	DeleteFile(ctx context.Context, userID, documentID string) error

	// ClearData removes all of the user's uploaded documents.
	ClearData(ctx context.Context, userID string) error

	// DeleteAccount removes the user's account and all associated data.
	DeleteAccount(ctx context.Context, userID string) error
}
