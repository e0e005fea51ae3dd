package domain

// SessionState is the primary state of the session orchestrator.
//
// Sending a message is deliberately not a state: it is tracked by an
// independent awaiting-answer flag scoped to the current ActiveDocument,
// so a pending answer never blocks other activity.
type SessionState string

// Session states.
const (
	// StateUnauthenticated means no user session exists.
	StateUnauthenticated SessionState = "unauthenticated"

	// StateRestoring means a session just appeared and the initial
	// document is being decided from the current route.
	StateRestoring SessionState = "restoring"

	// StateNoActiveDocument means a session exists but no document
	// is open for conversation.
	StateNoActiveDocument SessionState = "no_active_document"

	// StateUploading means a validated file is being uploaded.
	StateUploading SessionState = "uploading"

	// StateActivatingIndex means the remote index for a candidate
	// document is being loaded.
	StateActivatingIndex SessionState = "activating_index"

	// StateActiveReady means a document is open and ready for queries.
	StateActiveReady SessionState = "active_ready"
)

// IsValid returns true if the state is recognised.
func (s SessionState) IsValid() bool {
	switch s {
	case StateUnauthenticated, StateRestoring, StateNoActiveDocument,
		StateUploading, StateActivatingIndex, StateActiveReady:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s SessionState) String() string {
	return string(s)
}
