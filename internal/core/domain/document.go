package domain

import "time"

// DocumentRecord describes one uploaded document as known to the remote
// index service. Records are immutable once created: they are produced by
// a successful upload or fetched by id when restoring a deep link, and are
// never mutated afterwards.
type DocumentRecord struct {
	// ID is the service-assigned identifier, stable and unique per user.
	ID string

	// Filename is the display name of the uploaded file.
	Filename string

	// UploadedAt is when the service accepted the upload.
	UploadedAt time.Time
}

// ActiveDocument is the single document currently open for conversation.
// At most one exists per session; transitions are owned exclusively by the
// session orchestrator.
type ActiveDocument struct {
	// Record is the document that is open.
	Record DocumentRecord

	// IndexLoaded reports whether the remote index has been activated
	// and the document is ready for queries.
	IndexLoaded bool
}
