// Package tui implements the interactive chat interface using the
// Bubbletea Elm architecture.
package tui

import "errors"

// ErrMissingSession is returned when no session orchestrator is provided.
var ErrMissingSession = errors.New("tui: session is required")
