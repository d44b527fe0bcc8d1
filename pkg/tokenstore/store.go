package tokenstore

import "context"

// Store is the durable backend behind a TokenStore. Implementations persist
// exactly one value under exactly one key; there is no enumeration and no
// second slot.
type Store interface {
	// Load returns the persisted credential, or ErrTokenNotFound when the
	// slot is empty.
	Load(ctx context.Context) (string, error)

	// Save persists the credential, replacing any previous value.
	Save(ctx context.Context, token string) error

	// Delete empties the slot. Deleting an already-empty slot is not an error.
	Delete(ctx context.Context) error
}
