package identity

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the backend-provided subject of a session.
type Identity struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// Session is the local projection of a live authenticated login. It is only
// ever built from the backend's latest answer, never patched from stale data.
// IssuedAt and ExpiresAt are display-only; zero values mean the backend did
// not say, and do not invalidate the session.
type Session struct {
	Identity  Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Grant is a Session together with the bearer token that backs it. The token
// travels alongside the session exactly once, from the provider to whoever
// stores it.
type Grant struct {
	Session     Session
	AccessToken string
}

// Credentials are what a user types at the sign-in form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload for a new wholesale account.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
}

// SignUpResult distinguishes the two valid sign-up outcomes: the backend
// either opened a session immediately (Grant non-nil) or parked the account
// behind email verification (PendingVerification true, Grant nil).
type SignUpResult struct {
	Grant               *Grant
	PendingVerification bool
}
