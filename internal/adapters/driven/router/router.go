// Package router binds the active conversation to a URL-style path. The
// current path persists to disk so a restart lands back on the same
// document, the way a web client restores a deep link.
package router

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure PathRouter implements the interface.
var _ driven.Router = (*PathRouter)(nil)

// chatPrefix is the path pattern carrying a document segment.
const chatPrefix = "/chat/"

// changeBuffer sizes the navigation channel. A consumer that falls
// behind only needs the latest route, so older events are evicted.
const changeBuffer = 16

// maxHistory caps the retained navigation history.
const maxHistory = 50

// PathRouter tracks the current route and its history.
type PathRouter struct {
	mu       sync.Mutex
	filePath string
	path     string
	history  []string
	changes  chan driven.RouteChange
	closed   bool
}

// New creates a router persisting the current path in the given data
// directory. If dataDir is empty, defaults to ~/.docchat/data.
func New(dataDir string) (*PathRouter, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docchat", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	r := &PathRouter{
		filePath: filepath.Join(dataDir, "route"),
		path:     "/",
		changes:  make(chan driven.RouteChange, changeBuffer),
	}

	if data, err := os.ReadFile(r.filePath); err == nil {
		if path := strings.TrimSpace(string(data)); path != "" {
			r.path = path
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading route: %w", err)
	}

	return r, nil
}

// NewEphemeral creates a router that never touches the filesystem.
// Every run starts at the root path.
func NewEphemeral() *PathRouter {
	return &PathRouter{
		path:    "/",
		changes: make(chan driven.RouteChange, changeBuffer),
	}
}

// DocumentID returns the document segment of the current route.
func (r *PathRouter) DocumentID() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return parsePath(r.path)
}

// Path returns the current route path.
func (r *PathRouter) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// History returns the navigation history, oldest first.
func (r *PathRouter) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// Set writes a document segment to the route, recording history.
func (r *PathRouter) Set(documentID string) {
	r.navigate(chatPrefix + documentID)
}

// Clear removes the document segment from the route.
func (r *PathRouter) Clear() {
	r.navigate("/")
}

// Navigate moves to an arbitrary path, as a user-driven deep link would.
func (r *PathRouter) Navigate(path string) {
	if path == "" {
		path = "/"
	}
	r.navigate(path)
}

// Changes delivers navigation events.
func (r *PathRouter) Changes() <-chan driven.RouteChange {
	return r.changes
}

// Close releases the router and closes the Changes channel.
func (r *PathRouter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	close(r.changes)
	return nil
}

// navigate applies a path change, persists it, and announces it.
func (r *PathRouter) navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if path == r.path {
		return
	}

	r.history = append(r.history, r.path)
	if len(r.history) > maxHistory {
		r.history = r.history[len(r.history)-maxHistory:]
	}
	r.path = path
	r.persistLocked()

	id, present := parsePath(path)
	r.emitLocked(driven.RouteChange{DocumentID: id, Present: present})
}

// persistLocked writes the current path; a persistence failure never
// blocks navigation.
func (r *PathRouter) persistLocked() {
	if r.filePath == "" {
		return
	}
	_ = os.WriteFile(r.filePath, []byte(r.path+"\n"), 0600)
}

// emitLocked queues a change without ever blocking: the orchestrator may
// write the route while holding its own lock.
func (r *PathRouter) emitLocked(change driven.RouteChange) {
	if r.closed {
		return
	}
	for {
		select {
		case r.changes <- change:
			return
		default:
			select {
			case <-r.changes:
			default:
			}
		}
	}
}

// parsePath extracts the document segment from a /chat/:documentId path.
func parsePath(path string) (string, bool) {
	if !strings.HasPrefix(path, chatPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(path, chatPrefix)
	id = strings.TrimSuffix(id, "/")
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
