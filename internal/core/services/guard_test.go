package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

func TestGuard_DuplicateRequestIssuesOneCall(t *testing.T) {
	f := newFixture(t, "user-1")
	f.addDocument(t, "doc1", "invoice.pdf")
	gate := f.index.gateLoad("doc1")
	f.start(t)
	f.waitState(t, domain.StateNoActiveDocument)
	ctx := context.Background()

	require.NoError(t, f.session.OpenDocument(ctx, "doc1"))
	f.waitState(t, domain.StateActivatingIndex)

	// Second request for the same id while the first is in flight.
	require.NoError(t, f.session.OpenDocument(ctx, "doc1"))
	time.Sleep(20 * time.Millisecond)

	gate <- nil
	f.waitActive(t, "doc1")

	assert.Equal(t, 1, f.index.loadCallsFor("doc1"))
}

func TestGuard_RequestForActiveDocumentIsNoOp(t *testing.T) {
	f := newFixture(t, "user-1")
	f.addDocument(t, "doc1", "invoice.pdf")
	f.start(t)
	f.waitState(t, domain.StateNoActiveDocument)
	ctx := context.Background()

	require.NoError(t, f.session.OpenDocument(ctx, "doc1"))
	f.waitActive(t, "doc1")

	require.NoError(t, f.session.OpenDocument(ctx, "doc1"))
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 1, f.index.loadCallsFor("doc1"))
	assert.Equal(t, domain.StateActiveReady, f.session.Snapshot().State)
}

func TestGuard_MostRecentWins_SlowFirstRequest(t *testing.T) {
	f := newFixture(t, "user-1")
	f.addDocument(t, "docA", "a.pdf")
	f.addDocument(t, "docB", "b.pdf")
	gateA := f.index.gateLoad("docA")
	gateB := f.index.gateLoad("docB")
	f.start(t)
	f.waitState(t, domain.StateNoActiveDocument)
	ctx := context.Background()

	require.NoError(t, f.session.OpenDocument(ctx, "docA"))
	require.Eventually(t, func() bool { return f.index.loadCallsFor("docA") == 1 }, waitFor, tick)
	require.NoError(t, f.session.OpenDocument(ctx, "docB"))
	require.Eventually(t, func() bool { return f.index.loadCallsFor("docB") == 1 }, waitFor, tick)

	// B resolves first, then A's late success arrives.
	gateB <- nil
	f.waitActive(t, "docB")
	gateA <- nil
	time.Sleep(50 * time.Millisecond)

	snap := f.session.Snapshot()
	require.NotNil(t, snap.Active)
	assert.Equal(t, "docB", snap.Active.Record.ID, "A's stale success must be discarded")
}

func TestGuard_MostRecentWins_FastFirstRequest(t *testing.T) {
	f := newFixture(t, "user-1")
	f.addDocument(t, "docA", "a.pdf")
	f.addDocument(t, "docB", "b.pdf")
	gateA := f.index.gateLoad("docA")
	gateB := f.index.gateLoad("docB")
	f.start(t)
	f.waitState(t, domain.StateNoActiveDocument)
	ctx := context.Background()

	require.NoError(t, f.session.OpenDocument(ctx, "docA"))
	require.Eventually(t, func() bool { return f.index.loadCallsFor("docA") == 1 }, waitFor, tick)
	require.NoError(t, f.session.OpenDocument(ctx, "docB"))
	require.Eventually(t, func() bool { return f.index.loadCallsFor("docB") == 1 }, waitFor, tick)

	// A resolves first; its success must not be applied because B has
	// since been requested.
	gateA <- nil
	time.Sleep(50 * time.Millisecond)
	assert.Nil(t, f.session.Snapshot().Active)

	gateB <- nil
	f.waitActive(t, "docB")
}

func TestGuard_FailureClearsInFlightMarker(t *testing.T) {
	f := newFixture(t, "user-1")
	f.addDocument(t, "doc1", "invoice.pdf")
	gate := f.index.gateLoad("doc1")
	f.start(t)
	f.waitState(t, domain.StateNoActiveDocument)
	ctx := context.Background()

	require.NoError(t, f.session.OpenDocument(ctx, "doc1"))
	gate <- assert.AnError
	f.waitState(t, domain.StateNoActiveDocument)

	// The id must be requestable again: the marker was cleared on error.
	require.NoError(t, f.session.OpenDocument(ctx, "doc1"))
	gate <- nil
	f.waitActive(t, "doc1")

	assert.Equal(t, 2, f.index.loadCallsFor("doc1"))
}

func TestGuard_SupersededInFlightDoesNotBlockRetry(t *testing.T) {
	f := newFixture(t, "user-1")
	f.addDocument(t, "doc1", "invoice.pdf")
	gate := f.index.gateLoad("doc1")
	f.start(t)
	f.waitState(t, domain.StateNoActiveDocument)
	ctx := context.Background()

	require.NoError(t, f.session.OpenDocument(ctx, "doc1"))
	f.waitState(t, domain.StateActivatingIndex)

	// Leaving the conversation retires the attempt. Asking for the same
	// id again must start a fresh call, not be dropped as busy.
	f.session.NewConversation()
	f.waitState(t, domain.StateNoActiveDocument)

	require.NoError(t, f.session.OpenDocument(ctx, "doc1"))
	require.Eventually(t, func() bool { return f.index.loadCallsFor("doc1") == 2 }, waitFor, tick)

	gate <- nil
	gate <- nil
	f.waitActive(t, "doc1")
}

func TestGuard_NewConversationSupersedesInFlight(t *testing.T) {
	f := newFixture(t, "user-1")
	f.addDocument(t, "doc1", "invoice.pdf")
	gate := f.index.gateLoad("doc1")
	f.start(t)
	f.waitState(t, domain.StateNoActiveDocument)
	ctx := context.Background()

	require.NoError(t, f.session.OpenDocument(ctx, "doc1"))
	f.waitState(t, domain.StateActivatingIndex)

	f.session.NewConversation()
	gate <- nil
	time.Sleep(50 * time.Millisecond)

	snap := f.session.Snapshot()
	assert.Equal(t, domain.StateNoActiveDocument, snap.State)
	assert.Nil(t, snap.Active, "activation finishing after new-conversation must be discarded")
}
