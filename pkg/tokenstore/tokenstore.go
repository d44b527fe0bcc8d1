package tokenstore

import (
	"context"
	"errors"
	"sync"
)

// TokenStore fronts a durable Store with an in-memory cache. All methods are
// safe for concurrent use; readers never observe a half-written value.
type TokenStore struct {
	mu     sync.RWMutex
	store  Store
	token  string
	primed bool // memory reflects the durable slot
}

// New creates a TokenStore over the given durable backend. A nil store
// defaults to an in-memory backend, which does not survive a restart.
func New(store Store) *TokenStore {
	if store == nil {
		store = NewMemoryStore()
	}
	return &TokenStore{store: store}
}

// Get returns the current credential. Memory is checked first; on a miss the
// durable slot is consulted and backfilled into memory so subsequent reads
// stay off the storage layer.
func (s *TokenStore) Get(ctx context.Context) (string, bool) {
	s.mu.RLock()
	if s.primed {
		token := s.token
		s.mu.RUnlock()
		return token, token != ""
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.primed {
		return s.token, s.token != ""
	}

	token, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			s.token = ""
			s.primed = true
		}
		// Storage failure: leave the cache unprimed so the next read retries.
		return "", false
	}

	s.token = token
	s.primed = true
	return token, token != ""
}

// Set stores a new credential, replacing any previous one. The durable write
// happens first; memory is updated only on success so the two layers cannot
// disagree about a credential that was never persisted.
func (s *TokenStore) Set(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, token); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	s.token = token
	s.primed = true
	return nil
}

// Clear empties the slot. Memory is cleared even when the durable delete
// fails: a credential the application has decided to drop must never be
// attached to another request.
func (s *TokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.primed = true

	if err := s.store.Delete(ctx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
