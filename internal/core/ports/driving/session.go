package driving

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// Session is the document-session orchestrator: it owns the single active
// document, the displayed transcript, and every transition between them.
type Session interface {
	// Start begins observing session and navigation changes. It returns
	// once the initial state has been decided; background watching
	// continues until ctx is cancelled or Close is called.
	Start(ctx context.Context) error

	// OpenDocument activates a document picked from the history.
	OpenDocument(ctx context.Context, documentID string) error

	// Upload validates and uploads a candidate file. Validation failures
	// are returned synchronously without touching state or network.
	Upload(ctx context.Context, filename string, data []byte) error

	// Send appends the user's message and asks the remote service for an
	// answer. Requires an active, ready document.
	Send(ctx context.Context, text string) error

	// NewConversation closes the current document and returns to the
	// no-document view.
	NewConversation()

	// Snapshot returns a consistent copy of the current session view.
	Snapshot() SessionSnapshot

	// Events delivers change notifications. Consumers re-read Snapshot
	// on each event; events carry no payload beyond their kind.
	Events() <-chan SessionEvent

	// Close disposes the orchestrator: the transcript subscription and
	// watches are torn down and the event channel is closed.
	Close() error
}

// SessionSnapshot is a consistent copy of the orchestrator's view.
type SessionSnapshot struct {
	// State is the primary session state.
	State domain.SessionState

	// UserID is the current session's user, empty when unauthenticated.
	UserID string

	// Active is the open document, nil when none.
	Active *domain.ActiveDocument

	// Transcript is the displayed transcript for the active document.
	Transcript []domain.ChatMessage

	// AwaitingAnswer is true between a query's issuance and resolution.
	AwaitingAnswer bool
}

// SessionEventKind identifies what changed.
type SessionEventKind int

const (
	// EventStateChanged signals a primary state transition.
	EventStateChanged SessionEventKind = iota

	// EventTranscriptUpdated signals a new transcript snapshot.
	EventTranscriptUpdated

	// EventAwaitingAnswer signals the awaiting-answer flag flipped.
	EventAwaitingAnswer
)

// SessionEvent is one change notification.
type SessionEvent struct {
	// Kind identifies what changed.
	Kind SessionEventKind
}
