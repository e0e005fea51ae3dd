package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// answerTimeout bounds how long the ask tool waits for the remote
// service.
const answerTimeout = 2 * time.Minute

// AskInput is the input schema for the ask_document tool.
type AskInput struct {
	Question   string `json:"question" jsonschema:"the question to ask about the document"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"document to ask about (defaults to the currently open one)"`
}

// AskOutput is the output schema for the ask_document tool.
type AskOutput struct {
	Answer     string `json:"answer"`
	DocumentID string `json:"document_id"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentInfo `json:"documents"`
	Count     int            `json:"count"`
}

// DocumentInfo represents one uploaded document.
type DocumentInfo struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	UploadedAt string `json:"uploaded_at"`
}

// OpenDocumentInput is the input schema for the open_document tool.
type OpenDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document to open a conversation for"`
}

// OpenDocumentOutput is the output schema for the open_document tool.
type OpenDocumentOutput struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	State      string `json:"state"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_document",
		Description: "Ask a question about an uploaded document",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the uploaded documents available for questions",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "open_document",
		Description: "Open a conversation for a previously uploaded document",
	}, s.handleOpenDocument)
}

// handleAsk handles the ask_document tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	session := s.ports.Session

	if input.DocumentID != "" {
		if err := session.OpenDocument(ctx, input.DocumentID); err != nil {
			return nil, AskOutput{}, err
		}
	}

	snap, err := s.awaitReady(ctx)
	if err != nil {
		return nil, AskOutput{}, err
	}

	if err := session.Send(ctx, input.Question); err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := s.awaitAnswer(ctx)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:     answer,
		DocumentID: snap.Active.Record.ID,
	}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Documents == nil {
		return nil, ListDocumentsOutput{Documents: []DocumentInfo{}}, nil
	}

	records, err := s.ports.Documents.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentInfo, len(records)),
		Count:     len(records),
	}
	for i, record := range records {
		output.Documents[i] = DocumentInfo{
			ID:         record.ID,
			Filename:   record.Filename,
			UploadedAt: record.UploadedAt.Format(time.RFC3339),
		}
	}

	return nil, output, nil
}

// handleOpenDocument handles the open_document tool invocation.
func (s *Server) handleOpenDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OpenDocumentInput,
) (*mcp.CallToolResult, OpenDocumentOutput, error) {
	if err := s.ports.Session.OpenDocument(ctx, input.DocumentID); err != nil {
		return nil, OpenDocumentOutput{}, err
	}

	snap, err := s.awaitReady(ctx)
	if err != nil {
		return nil, OpenDocumentOutput{}, err
	}

	return nil, OpenDocumentOutput{
		DocumentID: snap.Active.Record.ID,
		Filename:   snap.Active.Record.Filename,
		State:      snap.State.String(),
	}, nil
}

// awaitReady waits until the session settles on an active, ready
// document.
func (s *Server) awaitReady(ctx context.Context) (driving.SessionSnapshot, error) {
	deadline := time.NewTimer(answerTimeout)
	defer deadline.Stop()

	for {
		snap := s.ports.Session.Snapshot()
		switch snap.State {
		case domain.StateActiveReady:
			return snap, nil
		case domain.StateRestoring, domain.StateActivatingIndex, domain.StateUploading:
			// Still in flight.
		default:
			return snap, domain.ErrNoActiveDocument
		}

		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case <-deadline.C:
			return snap, fmt.Errorf("timed out waiting for the document to become ready")
		case _, ok := <-s.ports.Session.Events():
			if !ok {
				return snap, domain.ErrSessionClosed
			}
		}
	}
}

// awaitAnswer waits for the pending query to resolve and returns the
// newest model message.
func (s *Server) awaitAnswer(ctx context.Context) (string, error) {
	deadline := time.NewTimer(answerTimeout)
	defer deadline.Stop()

	for {
		snap := s.ports.Session.Snapshot()
		if !snap.AwaitingAnswer {
			for i := len(snap.Transcript) - 1; i >= 0; i-- {
				if snap.Transcript[i].Role == domain.RoleAssistant {
					return snap.Transcript[i].Text, nil
				}
			}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline.C:
			return "", fmt.Errorf("timed out waiting for an answer")
		case _, ok := <-s.ports.Session.Events():
			if !ok {
				return "", domain.ErrSessionClosed
			}
		}
	}
}
