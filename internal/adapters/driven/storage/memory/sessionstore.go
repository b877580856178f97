package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

var _ driven.SessionStore = (*SessionStore)(nil)

// Default session lifetimes.
const (
	DefaultSessionTTL      = 1 * time.Hour
	DefaultCleanupInterval = 10 * time.Minute
)

// SessionStore keeps workflow sessions in an expiring cache.
// Sessions idle for longer than the TTL are dropped.
type SessionStore struct {
	cache *cache.Cache
}

// NewSessionStore creates a session store. A non-positive ttl uses DefaultSessionTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{cache: cache.New(ttl, DefaultCleanupInterval)}
}

// Save stores a copy of the session and refreshes its expiry.
func (s *SessionStore) Save(_ context.Context, state domain.SessionState) error {
	s.cache.Set(state.ID, state.Clone(), cache.DefaultExpiration)
	return nil
}

// Get returns a copy of a session.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.SessionState, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	state, ok := v.(domain.SessionState)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	c := state.Clone()
	return &c, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}
