package mcp

import (
	"context"
	"time"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// mockSession is a mock implementation of driving.Session. Its snapshot
// is mutated synchronously by the calls the handlers make, so the tool
// handlers observe a settled session without real asynchrony.
type mockSession struct {
	snap   driving.SessionSnapshot
	events chan driving.SessionEvent

	openCalls []string
	sendCalls []string

	openErr error
	sendErr error

	// answer is appended to the transcript when Send succeeds.
	answer string
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

func (m *mockSession) Start(_ context.Context) error { return nil }

func (m *mockSession) OpenDocument(_ context.Context, documentID string) error {
	m.openCalls = append(m.openCalls, documentID)
	if m.openErr != nil {
		return m.openErr
	}
	m.withActive(documentID, documentID+".pdf")
	return nil
}

func (m *mockSession) Upload(_ context.Context, _ string, _ []byte) error { return nil }

func (m *mockSession) Send(_ context.Context, text string) error {
	m.sendCalls = append(m.sendCalls, text)
	if m.sendErr != nil {
		return m.sendErr
	}
	m.snap.Transcript = append(m.snap.Transcript,
		domain.ChatMessage{ID: "q", Role: domain.RoleUser, Text: text, Timestamp: time.Now()},
		domain.ChatMessage{ID: "a", Role: domain.RoleAssistant, Text: m.answer, Timestamp: time.Now()},
	)
	return nil
}

func (m *mockSession) NewConversation() {
	m.snap.State = domain.StateNoActiveDocument
	m.snap.Active = nil
	m.snap.Transcript = nil
}

func (m *mockSession) Snapshot() driving.SessionSnapshot { return m.snap }

func (m *mockSession) Events() <-chan driving.SessionEvent { return m.events }

func (m *mockSession) Close() error {
	close(m.events)
	return nil
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	records  []domain.DocumentRecord
	messages []domain.ChatMessage
	err      error

	deleteCalls []string
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

func (m *mockDocumentService) ClearData(_ context.Context) error { return m.err }

func (m *mockDocumentService) DeleteAccount(_ context.Context) error { return m.err }
