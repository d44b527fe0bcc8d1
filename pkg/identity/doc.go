// Package identity is the narrow interface to the hosted identity backend.
//
// The rest of the application never talks to the backend's auth endpoints
// directly; it goes through a Provider, which answers exactly one question —
// "who is signed in right now" — and performs the handful of credential
// operations (sign in, sign out, sign up, password update, external login).
//
// A Provider result is a Grant: the projected Session plus the bearer token
// backing it. The token is handed to the caller for storage and is never kept
// inside the Session itself.
//
// HTTPProvider implements Provider over the backend's REST auth API. Its
// Subscribe method models the backend's push notifications as a change feed:
// a single watch goroutine re-probes at an interval and fans out a Grant (or
// nil for signed-out) to every subscriber whenever the answer changes.
package identity
