package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

// Ensure SessionManager implements the interface.
var _ driving.WorkflowSessions = (*SessionManager)(nil)

// SessionManager runs the newsletter workflow for many conversations.
// Each conversation's state lives in the session store; calls for one
// session are serialised and different sessions never block each other.
type SessionManager struct {
	workflow driving.Workflow
	store    driven.SessionStore
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionManager creates a session manager.
func NewSessionManager(workflow driving.Workflow, store driven.SessionStore) *SessionManager {
	return &SessionManager{
		workflow: workflow,
		store:    store,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Start creates a new session in its initial phase.
func (m *SessionManager) Start(ctx context.Context) (*domain.SessionState, error) {
	state := domain.NewSessionState(uuid.NewString(), m.now())
	if err := m.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &state, nil
}

// Get returns a session by ID.
func (m *SessionManager) Get(ctx context.Context, id string) (*domain.SessionState, error) {
	return m.store.Get(ctx, id)
}

// Step feeds free-text input to a session.
func (m *SessionManager) Step(ctx context.Context, id, input string) (domain.StepResult, error) {
	return m.transition(ctx, id, func(state domain.SessionState) (domain.SessionState, domain.StepResult, error) {
		return m.workflow.Step(ctx, state, input)
	})
}

// ChooseNews selects a news article and moves on to the consultation prompt.
func (m *SessionManager) ChooseNews(ctx context.Context, id, title string) (domain.StepResult, error) {
	return m.transition(ctx, id, func(state domain.SessionState) (domain.SessionState, domain.StepResult, error) {
		return m.chooseAndAdvance(ctx, state, func(s domain.SessionState) (domain.SessionState, domain.StepResult, error) {
			return m.workflow.ChooseNews(ctx, s, title)
		})
	})
}

// ChooseConsult selects a consultation case and moves on to the policy options.
func (m *SessionManager) ChooseConsult(ctx context.Context, id, title string) (domain.StepResult, error) {
	return m.transition(ctx, id, func(state domain.SessionState) (domain.SessionState, domain.StepResult, error) {
		return m.chooseAndAdvance(ctx, state, func(s domain.SessionState) (domain.SessionState, domain.StepResult, error) {
			return m.workflow.ChooseConsult(ctx, s, title)
		})
	})
}

// ChoosePolicy selects policy announcements and moves on to the generate prompt.
func (m *SessionManager) ChoosePolicy(ctx context.Context, id string, indices []int) (domain.StepResult, error) {
	return m.transition(ctx, id, func(state domain.SessionState) (domain.SessionState, domain.StepResult, error) {
		return m.chooseAndAdvance(ctx, state, func(s domain.SessionState) (domain.SessionState, domain.StepResult, error) {
			return m.workflow.ChoosePolicy(ctx, s, indices)
		})
	})
}

// Reset returns a session to its initial phase.
func (m *SessionManager) Reset(ctx context.Context, id string) error {
	_, err := m.transition(ctx, id, func(state domain.SessionState) (domain.SessionState, domain.StepResult, error) {
		return m.workflow.Reset(state), domain.StepResult{}, nil
	})
	return err
}

// End discards a session.
func (m *SessionManager) End(ctx context.Context, id string) error {
	lock := m.lock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.forget(id, lock)
	return nil
}

// chooseAndAdvance applies a selection and then steps once with empty
// input, so the caller receives the next prompt or option list. If the
// follow-up step fails the selection is still kept.
func (m *SessionManager) chooseAndAdvance(
	ctx context.Context,
	state domain.SessionState,
	choose func(domain.SessionState) (domain.SessionState, domain.StepResult, error),
) (domain.SessionState, domain.StepResult, error) {
	chosen, res, err := choose(state)
	if err != nil {
		return state, res, err
	}
	next, stepRes, err := m.workflow.Step(ctx, chosen, "")
	if err != nil {
		return chosen, res, err
	}
	if res.Message != "" {
		stepRes.Message = res.Message + "\n\n" + stepRes.Message
	}
	return next, stepRes, nil
}

// transition loads a session, applies fn under the session's lock and
// saves the resulting state. The state is saved even when fn fails so a
// partial advance is not lost.
func (m *SessionManager) transition(
	ctx context.Context,
	id string,
	fn func(domain.SessionState) (domain.SessionState, domain.StepResult, error),
) (domain.StepResult, error) {
	lock := m.lock(id)
	lock.Lock()
	defer lock.Unlock()

	state, err := m.store.Get(ctx, id)
	if err != nil {
		// Unknown and expired sessions must not leave a lock behind.
		if errors.Is(err, domain.ErrSessionNotFound) {
			m.forget(id, lock)
		}
		return domain.StepResult{}, err
	}

	next, res, fnErr := fn(*state)
	if err := m.store.Save(ctx, next); err != nil {
		return domain.StepResult{}, fmt.Errorf("save session: %w", err)
	}
	return res, fnErr
}

func (m *SessionManager) lock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// forget drops the lock for id unless it has already been replaced.
func (m *SessionManager) forget(id string, l *sync.Mutex) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[id] == l {
		delete(m.locks, id)
	}
}
