package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountCmd_Use(t *testing.T) {
	assert.Equal(t, "account", accountCmd.Use)
}

func TestAccountClearData_WithYesFlag(t *testing.T) {
	documents := &mockDocumentService{}
	cleanup := setupTestServices(newMockSession(), documents)
	defer cleanup()

	out, err := execute(t, "account", "clear-data", "--yes")

	require.NoError(t, err)
	assert.Equal(t, 1, documents.clearCalls)
	assert.Contains(t, out, "All documents and conversations removed")
}

func TestAccountClearData_ConfirmedInteractively(t *testing.T) {
	documents := &mockDocumentService{}
	cleanup := setupTestServices(newMockSession(), documents)
	defer cleanup()
	accountYes = false
	rootCmd.SetIn(strings.NewReader("y\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	out, err := execute(t, "account", "clear-data")

	require.NoError(t, err)
	assert.Equal(t, 1, documents.clearCalls)
	assert.Contains(t, out, "Remove ALL documents and conversations?")
}

func TestAccountClearData_Aborted(t *testing.T) {
	documents := &mockDocumentService{}
	cleanup := setupTestServices(newMockSession(), documents)
	defer cleanup()
	accountYes = false
	rootCmd.SetIn(strings.NewReader("n\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	out, err := execute(t, "account", "clear-data")

	require.NoError(t, err)
	assert.Zero(t, documents.clearCalls)
	assert.Contains(t, out, "Aborted.")
}

func TestAccountDelete_WithYesFlag(t *testing.T) {
	documents := &mockDocumentService{}
	cleanup := setupTestServices(newMockSession(), documents)
	defer cleanup()
	sessionProvider = nil

	out, err := execute(t, "account", "delete", "-y")

	require.NoError(t, err)
	assert.Equal(t, 1, documents.deleteAcctCall)
	assert.Contains(t, out, "Account deleted.")
}

func TestAccountDelete_Aborted(t *testing.T) {
	documents := &mockDocumentService{}
	cleanup := setupTestServices(newMockSession(), documents)
	defer cleanup()
	accountYes = false
	rootCmd.SetIn(strings.NewReader("\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	out, err := execute(t, "account", "delete")

	require.NoError(t, err)
	assert.Zero(t, documents.deleteAcctCall)
	assert.Contains(t, out, "Aborted.")
}

func TestAccountClearData_RequiresService(t *testing.T) {
	cleanup := setupTestServices(newMockSession(), &mockDocumentService{})
	defer cleanup()
	documentService = nil

	_, err := execute(t, "account", "clear-data", "--yes")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
