// Package authroute implements the authentication-failure path: the
// deterministic sequence that runs whenever any part of the application
// learns that the current bearer credential is no longer valid.
//
// The sequence is always the same — clear the stored credential, force the
// session to signed-out, navigate to the logged-out entry point — and it runs
// exactly once per failure episode no matter how many in-flight requests fail
// at the same moment. An internal latch collapses concurrent triggers; it
// re-arms after the navigation completes and on the next successful sign-in.
//
// Two callers reach it: the API client, inline, when a response classifies as
// an authentication failure; and any screen that received a bare error
// message through some other path and wants the same handling. Both funnel
// their string matching through pkg/apperr so they cannot diverge on what
// counts as an authentication failure.
package authroute
