package memory

import (
	"context"
	"sync"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// subscriptionBuffer sizes each subscriber channel. When a slow consumer
// falls behind, older snapshots are evicted: only the newest view matters.
const subscriptionBuffer = 16

// Ensure TranscriptStore implements the interface.
var _ driven.TranscriptStore = (*TranscriptStore)(nil)

// TranscriptStore is an in-memory implementation of driven.TranscriptStore.
// Subscribers receive a full ordered snapshot after every append.
type TranscriptStore struct {
	mu       sync.Mutex
	messages map[domain.TranscriptKey][]domain.ChatMessage
	subs     map[domain.TranscriptKey]map[*transcriptSubscription]struct{}
}

// NewTranscriptStore creates a new in-memory transcript store.
func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{
		messages: make(map[domain.TranscriptKey][]domain.ChatMessage),
		subs:     make(map[domain.TranscriptKey]map[*transcriptSubscription]struct{}),
	}
}

// Append adds a message and notifies subscribers with a fresh snapshot.
func (s *TranscriptStore) Append(_ context.Context, key domain.TranscriptKey, msg domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[key] = append(s.messages[key], msg)
	snapshot := s.snapshotLocked(key)
	for sub := range s.subs[key] {
		sub.push(snapshot)
	}
	return nil
}

// Messages returns the current ordered snapshot of the transcript.
func (s *TranscriptStore) Messages(_ context.Context, key domain.TranscriptKey) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(key), nil
}

// Subscribe opens a live subscription; the initial snapshot is queued
// before Subscribe returns.
func (s *TranscriptStore) Subscribe(_ context.Context, key domain.TranscriptKey) (driven.TranscriptSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &transcriptSubscription{
		store:   s,
		key:     key,
		updates: make(chan []domain.ChatMessage, subscriptionBuffer),
	}
	if s.subs[key] == nil {
		s.subs[key] = make(map[*transcriptSubscription]struct{})
	}
	s.subs[key][sub] = struct{}{}

	sub.push(s.snapshotLocked(key))
	return sub, nil
}

// DeleteTranscript removes the transcript for a document.
func (s *TranscriptStore) DeleteTranscript(_ context.Context, key domain.TranscriptKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, key)
	snapshot := []domain.ChatMessage{}
	for sub := range s.subs[key] {
		sub.push(snapshot)
	}
	return nil
}

// snapshotLocked copies the ordered message log for a key.
func (s *TranscriptStore) snapshotLocked(key domain.TranscriptKey) []domain.ChatMessage {
	msgs := s.messages[key]
	snapshot := make([]domain.ChatMessage, len(msgs))
	copy(snapshot, msgs)
	return snapshot
}

// transcriptSubscription is one live view of a transcript.
type transcriptSubscription struct {
	store   *TranscriptStore
	key     domain.TranscriptKey
	updates chan []domain.ChatMessage
	closed  bool // guarded by store.mu
}

// Updates delivers full ordered snapshots.
func (s *transcriptSubscription) Updates() <-chan []domain.ChatMessage {
	return s.updates
}

// Close unregisters the subscription and closes the channel. No snapshot
// is pushed after Close: push and Close are serialised by the store lock.
func (s *transcriptSubscription) Close() {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	delete(s.store.subs[s.key], s)
	close(s.updates)
}

// push queues a snapshot, evicting the oldest queued one when the
// consumer is behind. Callers hold the store lock.
func (s *transcriptSubscription) push(snapshot []domain.ChatMessage) {
	if s.closed {
		return
	}
	for {
		select {
		case s.updates <- snapshot:
			return
		default:
			select {
			case <-s.updates:
			default:
			}
		}
	}
}
