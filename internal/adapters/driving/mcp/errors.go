// Package mcp provides an MCP (Model Context Protocol) server adapter
// for docchat. It lets AI assistants ask questions about uploaded
// documents and browse the upload history.
package mcp

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")
