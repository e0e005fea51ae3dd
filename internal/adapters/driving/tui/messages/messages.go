// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation view for the active document.
	ViewChat ViewType = iota
	// ViewDocuments lists the user's uploaded documents.
	ViewDocuments
	// ViewUpload is the upload prompt.
	ViewUpload
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewDocuments:
		return "documents"
	case ViewUpload:
		return "upload"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SessionUpdated signals that the session changed and views should
// re-read the snapshot. It carries no payload; the snapshot is the
// single source of truth.
type SessionUpdated struct{}

// SessionClosed signals that the session's event stream ended.
type SessionClosed struct{}

// MessageSent signals the outcome of sending a chat message.
type MessageSent struct {
	Err error
}

// DocumentOpened signals the outcome of activating a document.
type DocumentOpened struct {
	DocumentID string
	Err        error
}

// DocumentsLoaded carries the user's document history.
type DocumentsLoaded struct {
	Records []domain.DocumentRecord
	Err     error
}

// DocumentDeleted signals a document was deleted.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// UploadStarted signals the outcome of submitting an upload.
type UploadStarted struct {
	Filename string
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
