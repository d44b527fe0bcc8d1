package identity

import "errors"

var (
	// ErrBackendUnavailable indicates the identity backend could not be reached
	ErrBackendUnavailable = errors.New("identity.backend_unavailable")

	// ErrInvalidCredentials indicates the backend rejected a sign-in attempt
	ErrInvalidCredentials = errors.New("identity.invalid_credentials")

	// ErrSignUpRejected indicates the backend rejected a registration
	ErrSignUpRejected = errors.New("identity.signup_rejected")

	// ErrPasswordRejected indicates the backend refused a password update
	ErrPasswordRejected = errors.New("identity.password_rejected")

	// ErrUnknownProvider indicates no OAuth configuration for the requested provider
	ErrUnknownProvider = errors.New("identity.unknown_external_provider")

	// ErrInvalidResponse indicates the backend answered with an unparseable body
	ErrInvalidResponse = errors.New("identity.invalid_response")
)
