package driven

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// DocumentStore persists the per-user document history. It backs the
// history list and the record fetch performed when restoring a deep link.
type DocumentStore interface {
	// Save stores a document record for a user.
	Save(ctx context.Context, userID string, record domain.DocumentRecord) error

	// Get retrieves a record by id. Returns domain.ErrNotFound when the
	// user has no such document.
	Get(ctx context.Context, userID, documentID string) (*domain.DocumentRecord, error)

	// List returns the user's records, newest upload first.
	List(ctx context.Context, userID string) ([]domain.DocumentRecord, error)

	// Delete removes a single record.
	Delete(ctx context.Context, userID, documentID string) error

	// DeleteAll removes every record for a user.
	DeleteAll(ctx context.Context, userID string) error
}
