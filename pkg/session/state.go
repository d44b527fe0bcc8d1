package session

import "github.com/rxware/rxkit/pkg/identity"

// Status is the tag of the session state union.
type Status string

const (
	// StatusLoading means no trigger has produced a verdict yet. It is the
	// initial value on every process start.
	StatusLoading Status = "loading"

	// StatusAuthenticated means the backend confirmed a live session.
	StatusAuthenticated Status = "authenticated"

	// StatusUnauthenticated means the backend confirmed there is none, or
	// the loading timeout gave up waiting.
	StatusUnauthenticated Status = "unauthenticated"
)

// State is a snapshot of the authentication state machine. Session is
// non-nil exactly when Status is StatusAuthenticated.
type State struct {
	Status  Status
	Session *identity.Session
}

// IsAuthenticated reports whether the state holds a confirmed session.
func (s State) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// IsLoading reports whether no verdict has been produced yet.
func (s State) IsLoading() bool {
	return s.Status == StatusLoading
}

func loadingState() State {
	return State{Status: StatusLoading}
}

func authenticatedState(sess identity.Session) State {
	return State{Status: StatusAuthenticated, Session: &sess}
}

func unauthenticatedState() State {
	return State{Status: StatusUnauthenticated}
}
