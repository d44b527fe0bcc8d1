package apperr

import (
	"net/http"
	"strings"
	"time"
)

// authFailurePhrases is the fixed set of backend messages that denote an
// invalid or missing bearer credential. It is deliberately small and lives in
// exactly one place; call sites must not grow their own variants.
var authFailurePhrases = []string{
	"access token required",
	"invalid access token",
	"access token expired",
	"authentication required",
}

// IsAuthFailureMessage reports whether message denotes an authentication
// failure. Matching is a case-insensitive substring check against the fixed
// phrase set.
func IsAuthFailureMessage(message string) bool {
	m := strings.ToLower(message)
	for _, phrase := range authFailurePhrases {
		if strings.Contains(m, phrase) {
			return true
		}
	}
	return false
}

// IsAuthFailure reports whether a response with the given status and message
// must take the authentication-failure path.
func IsAuthFailure(status int, message string) bool {
	return status == http.StatusUnauthorized || IsAuthFailureMessage(message)
}

// FromStatus maps a non-success HTTP status onto the taxonomy. The message is
// carried through verbatim; if it matches the authentication phrase set the
// result is KindAuthentication regardless of status.
func FromStatus(status int, message string) *Error {
	kind := KindServer
	switch {
	case IsAuthFailure(status, message):
		kind = KindAuthentication
	case status == http.StatusForbidden:
		kind = KindAuthorization
	case status == http.StatusBadRequest:
		kind = KindValidation
	}

	if message == "" {
		message = http.StatusText(status)
	}

	return &Error{Kind: kind, Message: message, Code: status, Timestamp: time.Now()}
}

// FromTransport classifies a request that produced no response at all.
func FromTransport(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), Timestamp: time.Now()}
}
