package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

func message(id, text string, role domain.Role) domain.ChatMessage {
	return domain.ChatMessage{ID: id, Role: role, Text: text, Timestamp: time.Now()}
}

func TestTranscriptStore_AppendAndMessages(t *testing.T) {
	store := NewTranscriptStore()
	ctx := context.Background()
	key := domain.TranscriptKey{UserID: "user-1", DocumentID: "doc-1"}

	require.NoError(t, store.Append(ctx, key, message("m1", "hello", domain.RoleUser)))
	require.NoError(t, store.Append(ctx, key, message("m2", "hi there", domain.RoleAssistant)))

	messages, err := store.Messages(ctx, key)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Text)
	assert.Equal(t, domain.RoleAssistant, messages[1].Role)
}

func TestTranscriptStore_MessagesEmpty(t *testing.T) {
	store := NewTranscriptStore()

	messages, err := store.Messages(context.Background(), domain.TranscriptKey{UserID: "u", DocumentID: "d"})

	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestTranscriptStore_SubscribeDeliversInitialSnapshot(t *testing.T) {
	store := NewTranscriptStore()
	ctx := context.Background()
	key := domain.TranscriptKey{UserID: "user-1", DocumentID: "doc-1"}
	require.NoError(t, store.Append(ctx, key, message("m1", "hello", domain.RoleUser)))

	sub, err := store.Subscribe(ctx, key)
	require.NoError(t, err)
	defer sub.Close()

	select {
	case snapshot := <-sub.Updates():
		require.Len(t, snapshot, 1)
		assert.Equal(t, "hello", snapshot[0].Text)
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot delivered")
	}
}

func TestTranscriptStore_SubscribeSeesAppends(t *testing.T) {
	store := NewTranscriptStore()
	ctx := context.Background()
	key := domain.TranscriptKey{UserID: "user-1", DocumentID: "doc-1"}

	sub, err := store.Subscribe(ctx, key)
	require.NoError(t, err)
	defer sub.Close()
	<-sub.Updates() // initial empty snapshot

	require.NoError(t, store.Append(ctx, key, message("m1", "question", domain.RoleUser)))

	select {
	case snapshot := <-sub.Updates():
		require.Len(t, snapshot, 1)
		assert.Equal(t, "question", snapshot[0].Text)
	case <-time.After(time.Second):
		t.Fatal("no snapshot after append")
	}
}

func TestTranscriptStore_SlowSubscriberKeepsNewest(t *testing.T) {
	store := NewTranscriptStore()
	ctx := context.Background()
	key := domain.TranscriptKey{UserID: "user-1", DocumentID: "doc-1"}

	sub, err := store.Subscribe(ctx, key)
	require.NoError(t, err)
	defer sub.Close()

	for i := 0; i < subscriptionBuffer*2; i++ {
		require.NoError(t, store.Append(ctx, key, message("m", "text", domain.RoleUser)))
	}

	var last []domain.ChatMessage
	for {
		select {
		case snapshot := <-sub.Updates():
			last = snapshot
			continue
		default:
		}
		break
	}
	assert.Len(t, last, subscriptionBuffer*2)
}

func TestTranscriptStore_DeleteTranscript(t *testing.T) {
	store := NewTranscriptStore()
	ctx := context.Background()
	key := domain.TranscriptKey{UserID: "user-1", DocumentID: "doc-1"}
	require.NoError(t, store.Append(ctx, key, message("m1", "hello", domain.RoleUser)))

	sub, err := store.Subscribe(ctx, key)
	require.NoError(t, err)
	defer sub.Close()
	<-sub.Updates()

	require.NoError(t, store.DeleteTranscript(ctx, key))

	messages, err := store.Messages(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, messages)

	select {
	case snapshot := <-sub.Updates():
		assert.Empty(t, snapshot)
	case <-time.After(time.Second):
		t.Fatal("no snapshot after delete")
	}
}

func TestTranscriptSubscription_CloseIsIdempotent(t *testing.T) {
	store := NewTranscriptStore()
	key := domain.TranscriptKey{UserID: "user-1", DocumentID: "doc-1"}

	sub, err := store.Subscribe(context.Background(), key)
	require.NoError(t, err)
	<-sub.Updates() // initial snapshot

	sub.Close()
	sub.Close()

	_, open := <-sub.Updates()
	assert.False(t, open)
}
