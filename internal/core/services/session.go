package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// Ensure SessionOrchestrator implements the interface.
var _ driving.Session = (*SessionOrchestrator)(nil)

// FallbackAnswerText is appended as the assistant's reply when a query
// fails. It persists in the transcript like any other message.
const FallbackAnswerText = "Something went wrong while answering. Please try again."

// eventBuffer sizes the event channel. Consumers re-read the snapshot on
// every event, so a dropped event only delays a repaint.
const eventBuffer = 64

// SessionOrchestrator is the document-session state machine. It reconciles
// four independently completing asynchronous sources (navigation, index
// activation, query answers, the live transcript feed) into one consistent
// view.
//
// All mutable state is guarded by a single mutex. Asynchronous completions
// re-enter through methods that take the lock and re-validate the world
// before applying their result: a completion whose target is no longer the
// intended one is discarded, never applied.
type SessionOrchestrator struct {
	index       driven.IndexService
	transcripts driven.TranscriptStore
	documents   driven.DocumentStore
	router      driven.Router
	sessions    driven.SessionProvider

	mu             sync.Mutex
	state          domain.SessionState
	uid            string
	active         *domain.ActiveDocument
	transcript     []domain.ChatMessage
	awaitingAnswer bool

	// Activation guard state (guard.go). inflight maps a document id to
	// the sequence number of its outstanding activation call;
	// activationSeq numbers every attempt and latestSeq is the newest
	// attempt started. A completion is applied only when its number is
	// still the latest, and a superseded call's marker no longer blocks
	// a fresh request for the same id.
	inflight      map[string]uint64
	activationSeq uint64
	latestSeq     uint64

	// Transcript subscription. subGen is bumped on every subscribe and
	// close so a late delivery from a replaced subscription can be
	// recognised and dropped.
	sub    driven.TranscriptSubscription
	subGen uint64

	events chan driving.SessionEvent
	done   chan struct{}
	closed bool
}

// NewSessionOrchestrator creates a session orchestrator with explicit
// dependencies. Nothing is ambient: the caller owns adapter lifecycles.
func NewSessionOrchestrator(
	index driven.IndexService,
	transcripts driven.TranscriptStore,
	documents driven.DocumentStore,
	router driven.Router,
	sessions driven.SessionProvider,
) *SessionOrchestrator {
	return &SessionOrchestrator{
		index:       index,
		transcripts: transcripts,
		documents:   documents,
		router:      router,
		sessions:    sessions,
		state:       domain.StateUnauthenticated,
		inflight:    make(map[string]uint64),
		events:      make(chan driving.SessionEvent, eventBuffer),
		done:        make(chan struct{}),
	}
}

// Start applies the current session (restoring from the route if it names
// a document) and begins watching session and navigation changes.
func (o *SessionOrchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return domain.ErrSessionClosed
	}
	o.mu.Unlock()

	if uid, ok := o.sessions.Current(); ok {
		o.applySession(ctx, uid)
	}

	go o.watch(ctx)
	return nil
}

// watch consumes session and navigation changes until shutdown.
func (o *SessionOrchestrator) watch(ctx context.Context) {
	sessionCh := o.sessions.Changes()
	routeCh := o.router.Changes()

	for {
		select {
		case <-ctx.Done():
			return
		case <-o.done:
			return

		case change, ok := <-sessionCh:
			if !ok {
				sessionCh = nil
				continue
			}
			if change.Present {
				o.applySession(ctx, change.UserID)
			} else {
				o.applySession(ctx, "")
			}

		case change, ok := <-routeCh:
			if !ok {
				routeCh = nil
				continue
			}
			o.applyRoute(ctx, change)
		}
	}
}

// applySession handles a session transition. An empty uid means signed out.
func (o *SessionOrchestrator) applySession(ctx context.Context, uid string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || uid == o.uid {
		return
	}

	// Any transition tears down the previous user's view first.
	o.closeSubscriptionLocked()
	o.active = nil
	o.transcript = nil
	o.awaitingAnswer = false
	o.supersedeActivationsLocked()
	o.uid = uid

	if uid == "" {
		o.setStateLocked(domain.StateUnauthenticated)
		return
	}

	if id, ok := o.router.DocumentID(); ok {
		o.setStateLocked(domain.StateRestoring)
		go o.restore(ctx, uid, id)
		return
	}

	o.setStateLocked(domain.StateNoActiveDocument)
}

// restore decides the initial document from the route: fetch the record
// for the route-encoded id and request a navigation-caused activation, or
// fall back to the no-document view and correct the route.
func (o *SessionOrchestrator) restore(ctx context.Context, uid, documentID string) {
	record, err := o.documents.Get(ctx, uid, documentID)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || o.uid != uid || o.state != domain.StateRestoring {
		return
	}

	if err != nil {
		logger.Debug("restore: no record for %s: %v", documentID, err)
		o.router.Clear()
		o.setStateLocked(domain.StateNoActiveDocument)
		return
	}

	o.requestActivationLocked(ctx, *record, causeNavigation)
}

// applyRoute reacts to a navigation event. A route naming a document that
// is not already active behaves like restoration; a route without a
// document while one is active behaves like leaving the conversation.
func (o *SessionOrchestrator) applyRoute(ctx context.Context, change driven.RouteChange) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || o.uid == "" {
		return
	}

	if change.Present {
		if o.active != nil && o.active.Record.ID == change.DocumentID {
			return
		}
		uid := o.uid
		go o.navigate(ctx, uid, change.DocumentID)
		return
	}

	if o.active == nil {
		return
	}
	o.leaveConversationLocked(false)
}

// navigate fetches the record for an externally navigated id and requests
// a navigation-caused activation.
func (o *SessionOrchestrator) navigate(ctx context.Context, uid, documentID string) {
	record, err := o.documents.Get(ctx, uid, documentID)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || o.uid != uid {
		return
	}

	if err != nil {
		logger.Debug("navigate: no record for %s: %v", documentID, err)
		o.router.Clear()
		o.setStateLocked(domain.StateNoActiveDocument)
		return
	}

	o.requestActivationLocked(ctx, *record, causeNavigation)
}

// OpenDocument activates a document picked from the history.
func (o *SessionOrchestrator) OpenDocument(ctx context.Context, documentID string) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if o.uid == "" {
		o.mu.Unlock()
		return domain.ErrNoSession
	}
	uid := o.uid
	o.mu.Unlock()

	record, err := o.documents.Get(ctx, uid, documentID)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.uid != uid {
		return domain.ErrNoSession
	}
	o.requestActivationLocked(ctx, *record, causeUser)
	return nil
}

// Send appends the user's message and asks the remote service for an
// answer. The user record is appended optimistically; the subscription's
// echo renders it. The answer (or the fixed fallback text on failure) is
// appended as an assistant record so it persists across reloads.
func (o *SessionOrchestrator) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrInvalidInput
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if o.state != domain.StateActiveReady || o.active == nil {
		o.mu.Unlock()
		return domain.ErrNoActiveDocument
	}
	uid := o.uid
	docID := o.active.Record.ID
	key := domain.TranscriptKey{UserID: uid, DocumentID: docID}
	o.awaitingAnswer = true
	o.emitLocked(driving.EventAwaitingAnswer)
	o.mu.Unlock()

	userMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Text:      text,
		Timestamp: time.Now(),
	}
	if err := o.transcripts.Append(ctx, key, userMsg); err != nil {
		logger.Warn("append user message: %v", err)
	}

	go o.answer(ctx, uid, docID, key, text)
	return nil
}

// answer completes a Send: it queries the remote service and appends the
// outcome. The awaiting-answer flag is cleared only if the same document
// is still the intended target; the appended record itself always lands in
// the transcript it was asked from.
func (o *SessionOrchestrator) answer(ctx context.Context, uid, docID string, key domain.TranscriptKey, question string) {
	response, err := o.index.Query(ctx, uid, question)

	reply := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Timestamp: time.Now(),
	}
	if err != nil {
		logger.Warn("query failed: %v", err)
		reply.Text = FallbackAnswerText
	} else {
		reply.Text = response
	}

	if aerr := o.transcripts.Append(ctx, key, reply); aerr != nil {
		logger.Warn("append answer: %v", aerr)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.uid == uid && o.active != nil && o.active.Record.ID == docID {
		o.awaitingAnswer = false
		o.emitLocked(driving.EventAwaitingAnswer)
	}
}

// NewConversation closes the current document and returns to the
// no-document view.
func (o *SessionOrchestrator) NewConversation() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.uid == "" {
		return
	}
	o.leaveConversationLocked(true)
}

// leaveConversationLocked tears down the active document view. clearRoute
// is false when the teardown was itself caused by a navigation to the
// no-document route.
func (o *SessionOrchestrator) leaveConversationLocked(clearRoute bool) {
	o.closeSubscriptionLocked()
	o.active = nil
	o.transcript = nil
	o.awaitingAnswer = false
	o.supersedeActivationsLocked()
	if clearRoute {
		o.router.Clear()
	}
	o.setStateLocked(domain.StateNoActiveDocument)
}

// Snapshot returns a consistent copy of the current session view.
func (o *SessionOrchestrator) Snapshot() driving.SessionSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := driving.SessionSnapshot{
		State:          o.state,
		UserID:         o.uid,
		AwaitingAnswer: o.awaitingAnswer,
	}
	if o.active != nil {
		active := *o.active
		snap.Active = &active
	}
	if len(o.transcript) > 0 {
		snap.Transcript = make([]domain.ChatMessage, len(o.transcript))
		copy(snap.Transcript, o.transcript)
	}
	return snap
}

// Events delivers change notifications.
func (o *SessionOrchestrator) Events() <-chan driving.SessionEvent {
	return o.events
}

// Close disposes the orchestrator.
func (o *SessionOrchestrator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	o.closeSubscriptionLocked()
	o.supersedeActivationsLocked()
	close(o.done)
	close(o.events)
	return nil
}

// --- Transcript subscription lifecycle ---

// subscribeLocked replaces the transcript subscription with one for the
// active document. The old subscription is closed first and its generation
// retired, so a late snapshot from it can never appear under the new
// document's identity.
func (o *SessionOrchestrator) subscribeLocked(ctx context.Context) {
	o.closeSubscriptionLocked()

	key := domain.TranscriptKey{UserID: o.uid, DocumentID: o.active.Record.ID}
	sub, err := o.transcripts.Subscribe(ctx, key)
	if err != nil {
		logger.Warn("subscribe transcript: %v", err)
		o.transcript = []domain.ChatMessage{syntheticError("Could not load the conversation history.")}
		o.emitLocked(driving.EventTranscriptUpdated)
		return
	}

	o.subGen++
	gen := o.subGen
	o.sub = sub
	o.transcript = nil
	o.emitLocked(driving.EventTranscriptUpdated)

	go o.consume(sub, gen)
}

// consume applies snapshots from one subscription until it closes. A
// snapshot from a retired generation is dropped: the subscription was
// replaced while the delivery was in flight.
func (o *SessionOrchestrator) consume(sub driven.TranscriptSubscription, gen uint64) {
	for snapshot := range sub.Updates() {
		o.mu.Lock()
		if gen != o.subGen {
			o.mu.Unlock()
			logger.Debug("dropping stale transcript snapshot (gen %d)", gen)
			return
		}
		o.transcript = snapshot
		o.emitLocked(driving.EventTranscriptUpdated)
		o.mu.Unlock()
	}
}

// closeSubscriptionLocked closes the current subscription, if any, and
// retires its generation.
func (o *SessionOrchestrator) closeSubscriptionLocked() {
	if o.sub == nil {
		return
	}
	o.sub.Close()
	o.sub = nil
	o.subGen++
}

// --- helpers ---

// setStateLocked records a state transition and notifies consumers.
func (o *SessionOrchestrator) setStateLocked(state domain.SessionState) {
	if o.state == state {
		return
	}
	logger.Debug("session state %s -> %s", o.state, state)
	o.state = state
	o.emitLocked(driving.EventStateChanged)
}

// setAlertLocked replaces the displayed transcript with a single
// transcript-style error entry. Used for failures with no persisted
// transcript to land in (upload, activation, subscription errors).
func (o *SessionOrchestrator) setAlertLocked(text string) {
	o.transcript = []domain.ChatMessage{syntheticError(text)}
	o.emitLocked(driving.EventTranscriptUpdated)
}

// emitLocked sends an event without blocking. The channel is buffered;
// consumers re-read the snapshot per event, so drops are harmless.
func (o *SessionOrchestrator) emitLocked(kind driving.SessionEventKind) {
	if o.closed {
		return
	}
	select {
	case o.events <- driving.SessionEvent{Kind: kind}:
	default:
		logger.Debug("event dropped (kind %d)", kind)
	}
}

// syntheticError builds a local, non-persisted assistant entry.
func syntheticError(text string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Text:      text,
		Timestamp: time.Now(),
	}
}
