package services

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// activationCause records what initiated an activation request. Only
// user- and upload-caused activations write the route afterwards; a pure
// restoration replay must not create a redundant history entry.
type activationCause int

const (
	causeNavigation activationCause = iota
	causeUser
	causeUpload
)

// requestActivationLocked is the load deduplication guard. It ensures at
// most one activation call is in flight per document id and arbitrates
// competing requests by most-recent-wins: every attempt is numbered, and a
// completion is applied only while its number is still the newest started.
//
// Requests for an id that is already active or already in flight are
// no-ops, logged rather than erroring.
func (o *SessionOrchestrator) requestActivationLocked(ctx context.Context, record domain.DocumentRecord, cause activationCause) {
	if o.active != nil && o.active.Record.ID == record.ID {
		logger.Debug("activation skipped: %s already active", record.ID)
		return
	}
	// A marker only counts as busy while its attempt is still the
	// newest; a superseded call's result will be discarded, so it must
	// not block a fresh request for the same id. When the skip fires,
	// the live attempt already put the machine in ActivatingIndex, so
	// no state transition is owed here.
	if seq, busy := o.inflight[record.ID]; busy && seq == o.latestSeq {
		logger.Debug("activation skipped: %s already in flight", record.ID)
		return
	}

	o.activationSeq++
	seq := o.activationSeq
	o.latestSeq = seq
	o.inflight[record.ID] = seq

	uid := o.uid
	o.setStateLocked(domain.StateActivatingIndex)

	go o.activate(ctx, uid, record, seq, cause)
}

// activate performs one activation call and applies its outcome. The
// attempt's own in-flight marker is always cleared, on success and
// failure alike — but never a newer attempt's marker for the same id;
// the outcome itself is applied only when this attempt is still the
// newest one and the session is unchanged.
func (o *SessionOrchestrator) activate(ctx context.Context, uid string, record domain.DocumentRecord, seq uint64, cause activationCause) {
	err := o.index.LoadIndex(ctx, uid, record.ID)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.inflight[record.ID] == seq {
		delete(o.inflight, record.ID)
	}

	if o.closed {
		return
	}
	if seq != o.latestSeq {
		logger.Debug("discarding superseded activation of %s (seq %d, latest %d)", record.ID, seq, o.latestSeq)
		return
	}
	if o.uid != uid {
		logger.Debug("discarding activation of %s: session changed", record.ID)
		return
	}

	if err != nil {
		logger.Warn("activation of %s failed: %v", record.ID, err)
		o.closeSubscriptionLocked()
		o.active = nil
		o.awaitingAnswer = false
		o.setAlertLocked("Could not open " + record.Filename + ". Please try again.")
		if cause == causeNavigation {
			o.router.Clear()
		}
		o.setStateLocked(domain.StateNoActiveDocument)
		return
	}

	o.active = &domain.ActiveDocument{Record: record, IndexLoaded: true}
	o.awaitingAnswer = false
	o.subscribeLocked(ctx)
	if cause != causeNavigation {
		o.router.Set(record.ID)
	}
	o.setStateLocked(domain.StateActiveReady)
}

// supersedeActivationsLocked retires every in-flight activation: their
// completions will see a newer sequence number and be discarded, and
// their markers stop blocking fresh requests. Used when the user's
// intent moves away from any pending target (sign-out, a new upload,
// new conversation, disposal).
func (o *SessionOrchestrator) supersedeActivationsLocked() {
	o.activationSeq++
	o.latestSeq = o.activationSeq
}
