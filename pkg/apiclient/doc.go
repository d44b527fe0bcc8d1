// Package apiclient performs outbound calls to the RxWare business backend
// with the current bearer credential attached, and classifies every failure
// uniformly.
//
// Callers hand over a path, a method and an optional body; the client owns
// the Authorization header. Non-success responses map onto the pkg/apperr
// taxonomy, and any response that denotes an invalid credential takes the
// authentication-failure path instead of surfacing an error: the credential
// is cleared, the application navigates to the logged-out entry point, and
// the caller receives a sentinel Redirecting response so it does not render
// its own error UI on a screen that is about to disappear.
//
// Transport-level failures (no response at all) classify as network errors
// and never touch the stored credential.
package apiclient
