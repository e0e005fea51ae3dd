package driven

// SessionChange is one user-session transition.
type SessionChange struct {
	// UserID is the new session's user, empty when signed out.
	UserID string

	// Present is true when a session exists.
	Present bool
}

// SessionProvider is the boundary to the authentication collaborator.
// The core never manages credentials; it only observes whether a session
// exists and which user it belongs to.
type SessionProvider interface {
	// Current returns the current session's user id, if any.
	Current() (string, bool)

	// Changes delivers session transitions (sign-in, sign-out).
	Changes() <-chan SessionChange

	// Close releases the provider and closes the Changes channel.
	Close() error
}
