// Package memory provides in-memory implementations of the storage ports.
// Used in tests and in ephemeral mode, where nothing outlives the process.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu      sync.RWMutex
	records map[string]map[string]domain.DocumentRecord // userID -> documentID -> record
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		records: make(map[string]map[string]domain.DocumentRecord),
	}
}

// Save stores a document record for a user.
func (s *DocumentStore) Save(_ context.Context, userID string, record domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[userID] == nil {
		s.records[userID] = make(map[string]domain.DocumentRecord)
	}
	s.records[userID][record.ID] = record
	return nil
}

// Get retrieves a record by id.
func (s *DocumentStore) Get(_ context.Context, userID, documentID string) (*domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[userID][documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// List returns the user's records, newest upload first.
func (s *DocumentStore) List(_ context.Context, userID string) ([]domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.DocumentRecord, 0, len(s.records[userID]))
	for _, record := range s.records[userID] {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].UploadedAt.Equal(records[j].UploadedAt) {
			return records[i].UploadedAt.After(records[j].UploadedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// Delete removes a single record.
func (s *DocumentStore) Delete(_ context.Context, userID, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[userID][documentID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records[userID], documentID)
	return nil
}

// DeleteAll removes every record for a user.
func (s *DocumentStore) DeleteAll(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, userID)
	return nil
}
