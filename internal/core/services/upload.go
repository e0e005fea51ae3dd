package services

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// Upload validates a candidate file, uploads it, and hands the resulting
// record to the activation guard. Validation rejections are synchronous
// and touch neither state nor network; the remote service remains the
// authority on what it accepts.
func (o *SessionOrchestrator) Upload(ctx context.Context, filename string, data []byte) error {
	if err := domain.ValidateUpload(filename, int64(len(data))); err != nil {
		return err
	}

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

	// Starting an upload leaves the current conversation; the previous
	// document's subscription must not outlive its place in the view,
	// and a pending activation must not resolve into it either.
	o.closeSubscriptionLocked()
	o.active = nil
	o.transcript = nil
	o.awaitingAnswer = false
	o.supersedeActivationsLocked()
	o.setStateLocked(domain.StateUploading)
	o.mu.Unlock()

	go o.upload(ctx, uid, filename, data)
	return nil
}

// upload completes an Upload: it performs the remote call, persists the
// record, and requests a user-caused activation. On failure the session
// returns to the no-document view with a transcript-style error entry.
func (o *SessionOrchestrator) upload(ctx context.Context, uid, filename string, data []byte) {
	record, err := o.index.Upload(ctx, uid, filename, data)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || o.uid != uid {
		return
	}
	if o.state != domain.StateUploading {
		logger.Debug("discarding upload result for %s: state moved on", filename)
		return
	}

	if err != nil {
		logger.Warn("upload of %s failed: %v", filename, err)
		o.setAlertLocked("Upload of " + filename + " failed. Please try again.")
		o.router.Clear()
		o.setStateLocked(domain.StateNoActiveDocument)
		return
	}

	if serr := o.documents.Save(ctx, uid, *record); serr != nil {
		// History persistence is best effort; the document exists
		// remotely and activation can still proceed.
		logger.Warn("save document record %s: %v", record.ID, serr)
	}

	o.requestActivationLocked(ctx, *record, causeUpload)
}
