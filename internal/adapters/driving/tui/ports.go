package tui

import (
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session drives the document conversation.
	Session driving.Session

	// Documents manages the upload history.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSession
	}
	// Documents is optional; the history view degrades gracefully.
	return nil
}
