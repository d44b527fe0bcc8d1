package apperr

import (
	"fmt"
	"time"
)

// Kind classifies a failure surfaced to a consumer.
type Kind string

const (
	KindNetwork        Kind = "network"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindValidation     Kind = "validation"
	KindServer         Kind = "server"
	KindUnknown        Kind = "unknown"
)

// Error is a classified failure. It is a value, not a wrapper around panics:
// everything unexpected is downgraded to KindUnknown at the boundary that
// produced it.
type Error struct {
	Kind      Kind
	Message   string
	Code      int // HTTP status when known, 0 otherwise
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New creates a classified error with the current timestamp.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Timestamp: time.Now()}
}

// IsAuthentication reports whether err is a classified authentication failure.
func IsAuthentication(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindAuthentication
}
