package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

func TestDocumentsCmd_Use(t *testing.T) {
	assert.Equal(t, "documents", documentsCmd.Use)
}

func TestDocumentsCmd_HasSubcommands(t *testing.T) {
	commands := documentsCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "list")
	assert.Contains(t, names, "delete")
}

func TestDocumentsList_PrintsHistory(t *testing.T) {
	documents := &mockDocumentService{
		records: []domain.DocumentRecord{
			{ID: "doc-2", Filename: "report.docx", UploadedAt: time.Now()},
			{ID: "doc-1", Filename: "invoice.pdf", UploadedAt: time.Now().Add(-time.Hour)},
		},
	}
	cleanup := setupTestServices(newMockSession(), documents)
	defer cleanup()

	out, err := execute(t, "documents", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "doc-2")
	assert.Contains(t, out, "report.docx")
	assert.Contains(t, out, "invoice.pdf")
	assert.Contains(t, out, "Total: 2 documents")
}

func TestDocumentsList_EmptyHistory(t *testing.T) {
	cleanup := setupTestServices(newMockSession(), &mockDocumentService{})
	defer cleanup()

	out, err := execute(t, "documents", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents uploaded yet")
}

func TestDocumentsList_RequiresService(t *testing.T) {
	cleanup := setupTestServices(newMockSession(), &mockDocumentService{})
	defer cleanup()
	documentService = nil

	_, err := execute(t, "documents", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestDocumentsDelete_RemovesDocument(t *testing.T) {
	documents := &mockDocumentService{}
	cleanup := setupTestServices(newMockSession(), documents)
	defer cleanup()

	out, err := execute(t, "documents", "delete", "doc-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, documents.deleteCalls)
	assert.Contains(t, out, "Document doc-1 deleted")
}

func TestDocumentsDelete_RequiresArg(t *testing.T) {
	cleanup := setupTestServices(newMockSession(), &mockDocumentService{})
	defer cleanup()

	_, err := execute(t, "documents", "delete")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocumentsDelete_PropagatesFailure(t *testing.T) {
	documents := &mockDocumentService{err: domain.ErrNotFound}
	cleanup := setupTestServices(newMockSession(), documents)
	defer cleanup()

	_, err := execute(t, "documents", "delete", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
