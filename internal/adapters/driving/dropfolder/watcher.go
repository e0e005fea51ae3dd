// Package dropfolder watches a directory and uploads every supported
// document dropped into it.
package dropfolder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// settleDelay is how long a file must stay quiet after its last write
// before it is picked up. Editors and downloads write in bursts.
const settleDelay = 500 * time.Millisecond

// Watcher uploads files appearing in a watched directory.
type Watcher struct {
	dir     string
	session driving.Session
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan string
}

// New creates a watcher for the given directory.
func New(dir string, session driving.Session) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat watch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path %s is not a directory", dir)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:     dir,
		session: session,
		watcher: fsWatcher,
		pending: make(map[string]*time.Timer),
		ready:   make(chan string, 16),
	}, nil
}

// Run processes filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case path := <-w.ready:
			w.upload(ctx, path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

// handleEvent schedules a settled pickup for relevant create and write
// events.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if isHidden(event.Name) {
		return
	}
	if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
		return
	}

	// Reset the settle timer on every burst of writes; the file is
	// picked up once it stays quiet.
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[event.Name]; ok {
		timer.Stop()
	}
	path := event.Name
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case w.ready <- path:
		default:
			logger.Warn("dropfolder backlog full, skipping %s", path)
		}
	})
}

// upload validates and uploads one settled file.
func (w *Watcher) upload(ctx context.Context, path string) {
	filename := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("skipping %s: %v", filename, err)
		return
	}

	if err := domain.ValidateUpload(filename, info.Size()); err != nil {
		logger.Info("skipping %s: %v", filename, err)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("skipping %s: %v", filename, err)
		return
	}

	logger.Info("uploading %s", filename)
	if err := w.session.Upload(ctx, filename, data); err != nil {
		logger.Warn("upload %s: %v", filename, err)
	}
}

// isHidden reports whether the file name starts with a dot.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
