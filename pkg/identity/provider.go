package identity

import "context"

// UnsubscribeFunc detaches a subscriber created by Provider.Subscribe.
// Calling it more than once is harmless.
type UnsubscribeFunc func()

// Provider is the narrow interface to the identity backend. Implementations
// must be safe for concurrent use.
type Provider interface {
	// Probe asks the backend whether there is a live session right now.
	// A nil Grant with a nil error means "authoritatively signed out";
	// a non-nil error means the question could not be answered.
	Probe(ctx context.Context) (*Grant, error)

	// Subscribe returns a channel of session changes. Each element is the
	// backend's new answer in full: a Grant on sign-in or token refresh,
	// nil on sign-out. The returned UnsubscribeFunc must be called on
	// teardown; after it returns the channel is closed.
	Subscribe(ctx context.Context) (<-chan *Grant, UnsubscribeFunc, error)

	// SignIn exchanges credentials for a Grant.
	SignIn(ctx context.Context, creds Credentials) (*Grant, error)

	// SignOut revokes the current session on the backend.
	SignOut(ctx context.Context) error

	// SignUp registers a new account. See SignUpResult for the two
	// possible outcomes.
	SignUp(ctx context.Context, reg Registration) (*SignUpResult, error)

	// UpdatePassword changes the signed-in user's password.
	UpdatePassword(ctx context.Context, newPassword string) error

	// ExternalLoginURL builds the authorization URL for an external OAuth
	// provider. The host application performs the actual redirect.
	ExternalLoginURL(provider string) (string, error)
}

var (
	// compile-time check
	_ Provider = (*HTTPProvider)(nil)
)
