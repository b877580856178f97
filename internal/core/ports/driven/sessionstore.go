package driven

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// SessionStore holds workflow sessions between turns.
type SessionStore interface {
	// Save stores a session, replacing any previous value.
	Save(ctx context.Context, state domain.SessionState) error

	// Get returns a session. Returns domain.ErrSessionNotFound if absent or expired.
	Get(ctx context.Context, id string) (*domain.SessionState, error)

	// Delete removes a session.
	Delete(ctx context.Context, id string) error
}
