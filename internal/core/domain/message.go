package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Wire values match the transcript store's schema.
const (
	// RoleUser marks a message typed by the user.
	RoleUser Role = "user"

	// RoleAssistant marks a message produced by the answering service.
	// The wire value is "model" for compatibility with the transcript schema.
	RoleAssistant Role = "model"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the wire representation.
func (r Role) String() string {
	return string(r)
}

// ChatMessage is one entry in a per-document conversation transcript.
// Ordering is owned by the transcript store: messages are delivered in
// non-decreasing timestamp order and the client never reorders them.
type ChatMessage struct {
	// ID is the unique message identifier.
	ID string

	// Role is the message author.
	Role Role

	// Text is the message body.
	Text string

	// Timestamp is when the message was appended.
	Timestamp time.Time
}

// TranscriptKey addresses one conversation: the transcript store keeps an
// ordered, append-only log per (user, document) pair.
type TranscriptKey struct {
	// UserID is the owning user.
	UserID string

	// DocumentID is the document the conversation is about.
	DocumentID string
}
