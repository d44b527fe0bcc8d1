package session

import "errors"

var (
	// ErrClosed indicates an operation on a Manager after Close
	ErrClosed = errors.New("session.closed")

	// ErrAlreadyStarted indicates a second call to Start
	ErrAlreadyStarted = errors.New("session.already_started")
)
