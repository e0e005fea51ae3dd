package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/auth"
)

// bindTestProvider installs a file session provider in a temp dir.
func bindTestProvider(t *testing.T) *auth.FileSessionProvider {
	t.Helper()

	provider, err := auth.NewFileSessionProvider(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Close())
	})

	cleanup := setupTestServices(newMockSession(), &mockDocumentService{})
	t.Cleanup(cleanup)
	sessionProvider = provider
	return provider
}

func TestLoginCmd_Use(t *testing.T) {
	assert.Equal(t, "login [user-id]", loginCmd.Use)
}

func TestLogin_WithTokenFlag(t *testing.T) {
	provider := bindTestProvider(t)

	out, err := execute(t, "login", "alice", "--token", "tok-123")

	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as alice.")

	userID, ok := provider.Current()
	assert.True(t, ok)
	assert.Equal(t, "alice", userID)
	require.NotNil(t, provider.Token())
	assert.Equal(t, "tok-123", provider.Token().AccessToken)
}

func TestLogin_WithExpiry(t *testing.T) {
	provider := bindTestProvider(t)

	_, err := execute(t, "login", "alice", "--token", "tok-123", "--expires-in", "3600")

	require.NoError(t, err)
	require.NotNil(t, provider.Token())
	assert.False(t, provider.Token().Expiry.IsZero())
}

func TestLogin_RequiresUserID(t *testing.T) {
	bindTestProvider(t)

	_, err := execute(t, "login")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestLogin_RequiresProvider(t *testing.T) {
	cleanup := setupTestServices(newMockSession(), &mockDocumentService{})
	defer cleanup()
	sessionProvider = nil

	_, err := execute(t, "login", "alice", "--token", "tok-123")

	assert.EqualError(t, err, "session provider not configured")
}

func TestLogout_RemovesCredentials(t *testing.T) {
	provider := bindTestProvider(t)
	_, err := execute(t, "login", "alice", "--token", "tok-123")
	require.NoError(t, err)

	out, err := execute(t, "logout")

	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")
	_, ok := provider.Current()
	assert.False(t, ok)
}

func TestLogout_RequiresProvider(t *testing.T) {
	cleanup := setupTestServices(newMockSession(), &mockDocumentService{})
	defer cleanup()
	sessionProvider = nil

	_, err := execute(t, "logout")

	assert.EqualError(t, err, "session provider not configured")
}
