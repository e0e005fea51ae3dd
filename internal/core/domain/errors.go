package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSession indicates no user session is present.
	ErrNoSession = errors.New("no user session")

	// ErrNoActiveDocument indicates no document is open for conversation.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrSessionClosed indicates the orchestrator has been disposed.
	ErrSessionClosed = errors.New("session closed")

	// Upload validation errors. These are reported synchronously,
	// before any network call is made.

	// ErrEmptyFilename indicates an upload candidate without a name.
	ErrEmptyFilename = errors.New("empty filename")

	// ErrUnsupportedFileType indicates a file extension outside the
	// accepted set.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrFileTooLarge indicates an upload candidate over the size ceiling.
	ErrFileTooLarge = errors.New("file too large")
)
