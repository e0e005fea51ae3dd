package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/oauth2"

	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure FileSessionProvider implements the interface.
var _ driven.SessionProvider = (*FileSessionProvider)(nil)

// changeBuffer sizes the session change channel. Transitions are rare;
// a small buffer keeps Login and Logout from ever blocking on a slow
// observer.
const changeBuffer = 8

// Credentials is the persisted session: the signed-in user and the
// OAuth token issued for them.
type Credentials struct {
	UserID string        `toml:"user_id"`
	Token  *oauth2.Token `toml:"token,omitempty"`
}

// FileSessionProvider stores the current session in a TOML file and
// exposes sign-in and sign-out transitions on a change channel.
type FileSessionProvider struct {
	mu       sync.Mutex
	filePath string
	current  *Credentials
	changes  chan driven.SessionChange
	closed   bool
}

// NewFileSessionProvider creates a session provider backed by
// credentials.toml in the given config directory. If configDir is empty,
// defaults to ~/.docchat.
func NewFileSessionProvider(configDir string) (*FileSessionProvider, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".docchat")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	p := &FileSessionProvider{
		filePath: filepath.Join(configDir, "credentials.toml"),
		changes:  make(chan driven.SessionChange, changeBuffer),
	}

	if err := p.load(); err != nil {
		return nil, err
	}

	return p, nil
}

// Current returns the current session's user id, if any. A session whose
// token has expired without a refresh token no longer counts.
func (p *FileSessionProvider) Current() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || p.current.UserID == "" {
		return "", false
	}
	if token := p.current.Token; token != nil && !token.Valid() && token.RefreshToken == "" {
		return "", false
	}
	return p.current.UserID, true
}

// Token returns the stored OAuth token for the current session, or nil.
func (p *FileSessionProvider) Token() *oauth2.Token {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil
	}
	return p.current.Token
}

// Login persists a new session and announces it.
func (p *FileSessionProvider) Login(userID string, token *oauth2.Token) error {
	if userID == "" {
		return fmt.Errorf("auth: user id is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = &Credentials{UserID: userID, Token: token}
	if err := p.save(); err != nil {
		return err
	}

	p.emitLocked(driven.SessionChange{UserID: userID, Present: true})
	return nil
}

// Logout removes the stored session and announces the sign-out.
func (p *FileSessionProvider) Logout() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil
	}

	p.current = nil
	if err := os.Remove(p.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credentials: %w", err)
	}

	p.emitLocked(driven.SessionChange{})
	return nil
}

// Changes delivers session transitions.
func (p *FileSessionProvider) Changes() <-chan driven.SessionChange {
	return p.changes
}

// Close releases the provider and closes the Changes channel.
func (p *FileSessionProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	close(p.changes)
	return nil
}

// Path returns the credentials file path.
func (p *FileSessionProvider) Path() string {
	return p.filePath
}

// load reads credentials from disk; a missing file means signed out.
func (p *FileSessionProvider) load() error {
	data, err := os.ReadFile(p.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading credentials: %w", err)
	}

	var creds Credentials
	if err := toml.Unmarshal(data, &creds); err != nil {
		return fmt.Errorf("parsing credentials: %w", err)
	}
	if creds.UserID != "" {
		p.current = &creds
	}
	return nil
}

// save writes credentials with restricted permissions (caller holds lock).
func (p *FileSessionProvider) save() error {
	data, err := toml.Marshal(p.current)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := os.WriteFile(p.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// emitLocked queues a change, evicting the oldest when the buffer is
// full. Only the latest transition matters to observers.
func (p *FileSessionProvider) emitLocked(change driven.SessionChange) {
	if p.closed {
		return
	}
	for {
		select {
		case p.changes <- change:
			return
		default:
			select {
			case <-p.changes:
			default:
			}
		}
	}
}

// ExpiryFromSeconds converts a token lifetime in seconds to an absolute
// expiry for storage.
func ExpiryFromSeconds(seconds int) time.Time {
	if seconds <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(seconds) * time.Second)
}
