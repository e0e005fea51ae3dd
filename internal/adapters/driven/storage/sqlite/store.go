package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// document and transcript store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
	hub  *transcriptHub
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docchat/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docchat", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		hub:  newTranscriptHub(),
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.hub.closeAll()
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// TranscriptStore returns a TranscriptStore interface backed by this store.
func (s *Store) TranscriptStore() driven.TranscriptStore {
	return &transcriptStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// Save stores or updates a document record for a user.
func (s *documentStore) Save(ctx context.Context, userID string, record domain.DocumentRecord) error {
	if userID == "" || record.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, user_id, filename, uploaded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, id) DO UPDATE SET
			filename = excluded.filename,
			uploaded_at = excluded.uploaded_at
	`, record.ID, userID, record.Filename, record.UploadedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving document record: %w", err)
	}
	return nil
}

// Get retrieves a record by id.
func (s *documentStore) Get(ctx context.Context, userID, documentID string) (*domain.DocumentRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, filename, uploaded_at
		FROM documents WHERE user_id = ? AND id = ?
	`, userID, documentID)

	var record domain.DocumentRecord
	if err := row.Scan(&record.ID, &record.Filename, &record.UploadedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document record: %w", err)
	}
	return &record, nil
}

// List returns the user's records, newest upload first.
func (s *documentStore) List(ctx context.Context, userID string) ([]domain.DocumentRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, filename, uploaded_at
		FROM documents WHERE user_id = ?
		ORDER BY uploaded_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying document records: %w", err)
	}
	defer rows.Close()

	var records []domain.DocumentRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var record domain.DocumentRecord
		if err := rows.Scan(&record.ID, &record.Filename, &record.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning document record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document records: %w", err)
	}

	return records, nil
}

// Delete removes a single record.
func (s *documentStore) Delete(ctx context.Context, userID, documentID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM documents WHERE user_id = ? AND id = ?", userID, documentID)
	if err != nil {
		return fmt.Errorf("deleting document record: %w", err)
	}
	return nil
}

// DeleteAll removes every record for a user.
func (s *documentStore) DeleteAll(ctx context.Context, userID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM documents WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("deleting document records: %w", err)
	}
	return nil
}
