package driven

// RouteChange is one navigation event.
type RouteChange struct {
	// DocumentID is the document segment of the new route, empty when
	// the route carries no document.
	DocumentID string

	// Present is true when the route carries a document segment.
	Present bool
}

// Router binds the session to the /chat/:documentId route. The orchestrator
// reads it on startup and on navigation, and writes it after successful
// user- or upload-initiated activation, never during restoration replay.
type Router interface {
	// DocumentID returns the document segment of the current route.
	DocumentID() (string, bool)

	// Set writes a document segment to the route, recording history.
	Set(documentID string)

	// Clear removes the document segment from the route.
	Clear()

	// Changes delivers navigation events, including those caused by
	// this process's own Set and Clear calls.
	Changes() <-chan RouteChange

	// Close releases the router and closes the Changes channel.
	Close() error
}
