package sqlite

import (
	"context"
	"fmt"
	"sync"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// subscriptionBuffer sizes each subscriber channel. When a slow consumer
// falls behind, older snapshots are evicted: only the newest view matters.
const subscriptionBuffer = 16

// transcriptStore implements driven.TranscriptStore. Messages persist in
// SQLite; live subscriptions are fanned out through an in-process hub, so
// subscribers see every append made through this store.
type transcriptStore struct {
	store *Store
}

var _ driven.TranscriptStore = (*transcriptStore)(nil)

// Append persists a message and notifies subscribers with a fresh snapshot.
func (s *transcriptStore) Append(ctx context.Context, key domain.TranscriptKey, msg domain.ChatMessage) error {
	if msg.ID == "" {
		return domain.ErrInvalidInput
	}

	// The hub lock spans the write and the snapshot read so subscribers
	// never observe snapshots out of order.
	s.store.hub.mu.Lock()
	defer s.store.hub.mu.Unlock()

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO messages (id, user_id, document_id, role, text, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.ID, key.UserID, key.DocumentID, string(msg.Role), msg.Text, msg.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}

	snapshot, err := s.messages(ctx, key)
	if err != nil {
		return err
	}
	s.store.hub.publishLocked(key, snapshot)
	return nil
}

// Messages returns the current ordered snapshot of the transcript.
func (s *transcriptStore) Messages(ctx context.Context, key domain.TranscriptKey) ([]domain.ChatMessage, error) {
	return s.messages(ctx, key)
}

// Subscribe opens a live subscription; the initial snapshot is queued
// before Subscribe returns.
func (s *transcriptStore) Subscribe(ctx context.Context, key domain.TranscriptKey) (driven.TranscriptSubscription, error) {
	s.store.hub.mu.Lock()
	defer s.store.hub.mu.Unlock()

	snapshot, err := s.messages(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.store.hub.subscribeLocked(key, snapshot), nil
}

// DeleteTranscript removes the transcript for a document.
func (s *transcriptStore) DeleteTranscript(ctx context.Context, key domain.TranscriptKey) error {
	s.store.hub.mu.Lock()
	defer s.store.hub.mu.Unlock()

	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM messages WHERE user_id = ? AND document_id = ?",
		key.UserID, key.DocumentID)
	if err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}

	s.store.hub.publishLocked(key, []domain.ChatMessage{})
	return nil
}

// messages reads the ordered message log for a key. Insertion order is
// the transcript order, so rows come back by rowid rather than timestamp.
func (s *transcriptStore) messages(ctx context.Context, key domain.TranscriptKey) ([]domain.ChatMessage, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, role, text, timestamp
		FROM messages WHERE user_id = ? AND document_id = ?
		ORDER BY rowid
	`, key.UserID, key.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	msgs := []domain.ChatMessage{}
	for rows.Next() {
		var msg domain.ChatMessage
		var role string
		if err := rows.Scan(&msg.ID, &role, &msg.Text, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msg.Role = domain.Role(role)
		msgs = append(msgs, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return msgs, nil
}

// ==================== Subscription Hub ====================

// transcriptHub fans transcript snapshots out to live subscribers.
type transcriptHub struct {
	mu   sync.Mutex
	subs map[domain.TranscriptKey]map[*transcriptSubscription]struct{}
}

func newTranscriptHub() *transcriptHub {
	return &transcriptHub{
		subs: make(map[domain.TranscriptKey]map[*transcriptSubscription]struct{}),
	}
}

// subscribeLocked registers a subscriber and queues its initial snapshot.
func (h *transcriptHub) subscribeLocked(key domain.TranscriptKey, snapshot []domain.ChatMessage) *transcriptSubscription {
	sub := &transcriptSubscription{
		hub:     h,
		key:     key,
		updates: make(chan []domain.ChatMessage, subscriptionBuffer),
	}
	if h.subs[key] == nil {
		h.subs[key] = make(map[*transcriptSubscription]struct{})
	}
	h.subs[key][sub] = struct{}{}

	sub.push(snapshot)
	return sub
}

// publishLocked pushes a snapshot to every subscriber of a key.
func (h *transcriptHub) publishLocked(key domain.TranscriptKey, snapshot []domain.ChatMessage) {
	for sub := range h.subs[key] {
		sub.push(snapshot)
	}
}

// closeAll closes every remaining subscription.
func (h *transcriptHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key, subs := range h.subs {
		for sub := range subs {
			if !sub.closed {
				sub.closed = true
				close(sub.updates)
			}
		}
		delete(h.subs, key)
	}
}

// transcriptSubscription is one live view of a transcript.
type transcriptSubscription struct {
	hub     *transcriptHub
	key     domain.TranscriptKey
	updates chan []domain.ChatMessage
	closed  bool // guarded by hub.mu
}

// Updates delivers full ordered snapshots.
func (s *transcriptSubscription) Updates() <-chan []domain.ChatMessage {
	return s.updates
}

// Close unregisters the subscription and closes the channel. No snapshot
// is pushed after Close: push and Close are serialised by the hub lock.
func (s *transcriptSubscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	delete(s.hub.subs[s.key], s)
	close(s.updates)
}

// push queues a snapshot, evicting the oldest queued one when the
// consumer is behind. Callers hold the hub lock.
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
