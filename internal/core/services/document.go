package services

import (
	"context"
	"fmt"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages the user's document history and remote data.
// Deletion is not the orchestrator's concern: it never mutates records,
// so removal lives here, beside the other maintenance calls.
type DocumentService struct {
	index       driven.IndexService
	documents   driven.DocumentStore
	transcripts driven.TranscriptStore
	sessions    driven.SessionProvider

	// session, when set, is told about deletions that affect the
	// currently open document.
	session driving.Session
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	index driven.IndexService,
	documents driven.DocumentStore,
	transcripts driven.TranscriptStore,
	sessions driven.SessionProvider,
) *DocumentService {
	return &DocumentService{
		index:       index,
		documents:   documents,
		transcripts: transcripts,
		sessions:    sessions,
	}
}

// BindSession attaches the session orchestrator so deletions can close a
// conversation whose document disappears.
func (s *DocumentService) BindSession(session driving.Session) {
	s.session = session
}

// List returns the user's documents, newest upload first.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentRecord, error) {
	uid, ok := s.sessions.Current()
	if !ok {
		return nil, domain.ErrNoSession
	}
	return s.documents.List(ctx, uid)
}

// Transcript returns the persisted conversation for a document.
func (s *DocumentService) Transcript(ctx context.Context, documentID string) ([]domain.ChatMessage, error) {
	uid, ok := s.sessions.Current()
	if !ok {
		return nil, domain.ErrNoSession
	}
	key := domain.TranscriptKey{UserID: uid, DocumentID: documentID}
	return s.transcripts.Messages(ctx, key)
}

// Delete removes a document from the remote service, the local history,
// and its transcript. If the document is currently open, the conversation
// is closed first.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	uid, ok := s.sessions.Current()
	if !ok {
		return domain.ErrNoSession
	}

	s.closeIfActive(documentID)

	if err := s.index.DeleteFile(ctx, uid, documentID); err != nil {
		return fmt.Errorf("delete remote file: %w", err)
	}
	if err := s.documents.Delete(ctx, uid, documentID); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	key := domain.TranscriptKey{UserID: uid, DocumentID: documentID}
	if err := s.transcripts.DeleteTranscript(ctx, key); err != nil {
		// The document is gone; a leftover transcript is an orphan,
		// not a failure.
		logger.Warn("delete transcript %s: %v", documentID, err)
	}
	return nil
}

// ClearData removes all of the user's documents and transcripts.
func (s *DocumentService) ClearData(ctx context.Context) error {
	uid, ok := s.sessions.Current()
	if !ok {
		return domain.ErrNoSession
	}

	if s.session != nil {
		s.session.NewConversation()
	}

	if err := s.index.ClearData(ctx, uid); err != nil {
		return fmt.Errorf("clear remote data: %w", err)
	}
	if err := s.clearLocal(ctx, uid); err != nil {
		return err
	}
	return nil
}

// DeleteAccount removes the user's account and all associated data.
// Ending the session itself is the auth collaborator's concern.
func (s *DocumentService) DeleteAccount(ctx context.Context) error {
	uid, ok := s.sessions.Current()
	if !ok {
		return domain.ErrNoSession
	}

	if s.session != nil {
		s.session.NewConversation()
	}

	if err := s.index.DeleteAccount(ctx, uid); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if err := s.clearLocal(ctx, uid); err != nil {
		return err
	}
	return nil
}

// clearLocal wipes the local history and transcripts for a user.
func (s *DocumentService) clearLocal(ctx context.Context, uid string) error {
	records, err := s.documents.List(ctx, uid)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}
	for _, record := range records {
		key := domain.TranscriptKey{UserID: uid, DocumentID: record.ID}
		if terr := s.transcripts.DeleteTranscript(ctx, key); terr != nil {
			logger.Warn("delete transcript %s: %v", record.ID, terr)
		}
	}
	if err := s.documents.DeleteAll(ctx, uid); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	return nil
}

// closeIfActive closes the conversation when the deleted document is the
// open one.
func (s *DocumentService) closeIfActive(documentID string) {
	if s.session == nil {
		return
	}
	snap := s.session.Snapshot()
	if snap.Active != nil && snap.Active.Record.ID == documentID {
		s.session.NewConversation()
	}
}
