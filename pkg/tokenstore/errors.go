package tokenstore

import "errors"

var (
	// ErrTokenNotFound indicates the durable backend holds no credential
	ErrTokenNotFound = errors.New("tokenstore.not_found")

	// ErrStoreUnavailable indicates the durable backend could not be reached
	ErrStoreUnavailable = errors.New("tokenstore.unavailable")

	// ErrEmptyToken indicates an attempt to store an empty credential
	ErrEmptyToken = errors.New("tokenstore.empty_token")
)
