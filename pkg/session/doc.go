// Package session owns the application-wide authentication state machine.
//
// A Manager produces a single, race-free State for every screen in the
// application. The state starts as Loading and is resolved by any of three
// independent triggers: an initial probe of the identity backend, the
// backend's push-style change feed, and a defensive re-probe that fires once
// shortly after start to mask a silently stalled first probe. None of the
// three is ordered with respect to the others; each one replaces the full
// state with the backend's current answer, so writes are idempotent and the
// last writer wins regardless of interleaving.
//
// A bounded loading timeout guarantees the UI never hangs on Loading: if no
// trigger has resolved by then, the state is forced to signed-out. The
// timeout is cancelled the moment any trigger resolves so a late fallback can
// never clobber a just-established signed-in state.
//
//	          probe ───┐
//	     change feed ──┼──► apply(full state) ──► State ──► subscribers
//	        re-probe ──┘         ▲
//	                             │
//	 loading timeout ── only while nothing has resolved
//
// The Manager is also the only writer of the bearer credential slot apart
// from the API client's authentication-failure path: sign-in stores the
// token, sign-out and an authoritative "no session" answer clear it.
package session
