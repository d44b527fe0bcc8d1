package authroute

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/rxware/rxkit/pkg/apperr"
	"github.com/rxware/rxkit/pkg/tokenstore"
)

// DefaultSignedOutRoute is where the application lands after a forced
// sign-out.
const DefaultSignedOutRoute = "/login"

// NavigateFunc performs an application-wide navigation. The host application
// supplies its router's implementation.
type NavigateFunc func(route string)

// SignOuter tears the local session down. Satisfied by the session Manager.
type SignOuter interface {
	Logout(ctx context.Context) error
}

// Handler runs the authentication-failure path. The zero value is not usable;
// construct with New.
type Handler struct {
	tokens   *tokenstore.TokenStore
	sessions SignOuter
	navigate NavigateFunc
	route    string
	logger   *slog.Logger
	inFlight atomic.Bool
}

// Option configures a Handler during construction.
type Option func(*Handler)

// WithSessions sets the session teardown target. Without it the handler
// still clears the credential and navigates, it just cannot force the state
// machine itself.
func WithSessions(s SignOuter) Option {
	return func(h *Handler) {
		h.sessions = s
	}
}

// WithNavigator sets the navigation implementation.
func WithNavigator(fn NavigateFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.navigate = fn
		}
	}
}

// WithSignedOutRoute overrides the logged-out entry point.
func WithSignedOutRoute(route string) Option {
	return func(h *Handler) {
		if route != "" {
			h.route = route
		}
	}
}

// WithLogger sets the logger for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a Handler over the credential store.
func New(tokens *tokenstore.TokenStore, opts ...Option) *Handler {
	h := &Handler{
		tokens:   tokens,
		route:    DefaultSignedOutRoute,
		navigate: func(string) {},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// HandleMessage inspects a bare error message and, when it denotes an
// authentication failure, runs the failure path. It returns true when the
// message was handled so the caller suppresses its own error display, false
// when the caller should proceed with normal error handling. Matching is the
// same fixed phrase set the API client classifies with.
func (h *Handler) HandleMessage(ctx context.Context, message string) bool {
	if !apperr.IsAuthFailureMessage(message) {
		return false
	}

	h.Trip(ctx)
	return true
}

// HandleError is HandleMessage for error values. A nil error is never
// handled.
func (h *Handler) HandleError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if apperr.IsAuthentication(err) {
		h.Trip(ctx)
		return true
	}
	return h.HandleMessage(ctx, err.Error())
}

// Trip runs the failure path unconditionally: clear credential, force
// signed-out, navigate. Concurrent calls collapse into one run; the latch
// re-arms once the navigation has completed.
func (h *Handler) Trip(ctx context.Context) {
	if !h.inFlight.CompareAndSwap(false, true) {
		// Another failure in the same episode is already being handled.
		return
	}
	defer h.inFlight.Store(false)

	h.logger.InfoContext(ctx, "authentication failure, signing out", "route", h.route)

	if err := h.tokens.Clear(ctx); err != nil {
		h.logger.WarnContext(ctx, "failed to clear stored credential", "error", err)
	}
	if h.sessions != nil {
		if err := h.sessions.Logout(ctx); err != nil {
			h.logger.WarnContext(ctx, "backend sign-out failed during forced logout", "error", err)
		}
	}

	h.navigate(h.route)
}

// Reset re-arms the latch. The session manager calls it after every
// successful sign-in so the next distinct failure episode is handled again
// even if a navigation callback never returned.
func (h *Handler) Reset() {
	h.inFlight.Store(false)
}
