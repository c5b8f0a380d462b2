// File: internal/auth/statestore.go
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/quentinL52/ai-interview-back/internal/platform/crypto"
)

// StateStore tracks the short-lived anti-CSRF state values handed out when an
// OAuth flow starts. A state is single-use: consuming it removes it.
type StateStore interface {
	Generate(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) (bool, error)
}

// InMemoryStateStore is an in-memory implementation of StateStore using a cache.
type InMemoryStateStore struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

// InMemoryStateStoreConfig holds the configuration for the InMemoryStateStore.
type InMemoryStateStoreConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// NewInMemoryStateStore creates a new in-memory OAuth state store.
func NewInMemoryStateStore(cfg InMemoryStateStoreConfig) *InMemoryStateStore {
	return &InMemoryStateStore{
		cache: cache.New(cfg.TTL, cfg.CleanupInterval),
		ttl:   cfg.TTL,
	}
}

// Generate creates a random state value and stores it until its TTL lapses.
func (s *InMemoryStateStore) Generate(ctx context.Context) (string, error) {
	state, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(state, true, s.ttl)
	return state, nil
}

// Consume reports whether the state was issued by this store and is still
// live, deleting it in the same step so a replayed state fails.
func (s *InMemoryStateStore) Consume(ctx context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found := s.cache.Get(state)
	if found {
		s.cache.Delete(state)
	}
	return found, nil
}
