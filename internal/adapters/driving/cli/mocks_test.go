package cli

import (
	"context"
	"time"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// mockSession implements driving.Session for command tests. Its
// snapshot always reads as settled so one-shot commands return without
// waiting on events.
type mockSession struct {
	snap   driving.SessionSnapshot
	events chan driving.SessionEvent

	openCalls   []string
	sendCalls   []string
	uploadCalls []string

	openErr   error
	sendErr   error
	uploadErr error
}

func newMockSession() *mockSession {
	return &mockSession{
		snap:   driving.SessionSnapshot{State: domain.StateNoActiveDocument, UserID: "user-1"},
		events: make(chan driving.SessionEvent, 16),
	}
}

func (m *mockSession) withActive(id, filename string) *mockSession {
	m.snap.State = domain.StateActiveReady
	m.snap.Active = &domain.ActiveDocument{
		Record:      domain.DocumentRecord{ID: id, Filename: filename, UploadedAt: time.Now()},
		IndexLoaded: true,
	}
	return m
}

func (m *mockSession) withAnswer(answer string) *mockSession {
	m.snap.Transcript = append(m.snap.Transcript,
		domain.ChatMessage{ID: "a", Role: domain.RoleAssistant, Text: answer, Timestamp: time.Now()},
	)
	return m
}

func (m *mockSession) Start(_ context.Context) error { return nil }

func (m *mockSession) OpenDocument(_ context.Context, documentID string) error {
	m.openCalls = append(m.openCalls, documentID)
	if m.openErr != nil {
		return m.openErr
	}
	m.withActive(documentID, documentID+".pdf")
	return nil
}

func (m *mockSession) Upload(_ context.Context, filename string, _ []byte) error {
	m.uploadCalls = append(m.uploadCalls, filename)
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.withActive("doc-new", filename)
	return nil
}

func (m *mockSession) Send(_ context.Context, text string) error {
	m.sendCalls = append(m.sendCalls, text)
	return m.sendErr
}

func (m *mockSession) NewConversation() {
	m.snap.State = domain.StateNoActiveDocument
	m.snap.Active = nil
	m.snap.Transcript = nil
}

func (m *mockSession) Snapshot() driving.SessionSnapshot { return m.snap }

func (m *mockSession) Events() <-chan driving.SessionEvent { return m.events }

func (m *mockSession) Close() error { return nil }

// mockDocumentService implements driving.DocumentService for command
// tests.
type mockDocumentService struct {
	records  []domain.DocumentRecord
	messages []domain.ChatMessage
	err      error

	deleteCalls    []string
	clearCalls     int
	deleteAcctCall int
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentRecord, error) {
	return m.records, m.err
}

func (m *mockDocumentService) Transcript(_ context.Context, _ string) ([]domain.ChatMessage, error) {
	return m.messages, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, documentID string) error {
	m.deleteCalls = append(m.deleteCalls, documentID)
	return m.err
}

func (m *mockDocumentService) ClearData(_ context.Context) error {
	m.clearCalls++
	return m.err
}

func (m *mockDocumentService) DeleteAccount(_ context.Context) error {
	m.deleteAcctCall++
	return m.err
}

// setupTestServices binds mock services and returns a cleanup that
// restores the previous bindings.
func setupTestServices(session *mockSession, documents *mockDocumentService) func() {
	prevSession := sessionService
	prevDocuments := documentService
	prevProvider := sessionProvider

	sessionService = session
	documentService = documents

	return func() {
		sessionService = prevSession
		documentService = prevDocuments
		sessionProvider = prevProvider
	}
}
