package driving

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// Workflow is the newsletter state machine. It holds no state of its own:
// every transition takes a session value and returns the next one.
// Rejected selections return the input state unchanged with an error.
type Workflow interface {
	Step(ctx context.Context, state domain.SessionState, input string) (domain.SessionState, domain.StepResult, error)
	ChooseNews(ctx context.Context, state domain.SessionState, title string) (domain.SessionState, domain.StepResult, error)
	ChooseConsult(ctx context.Context, state domain.SessionState, title string) (domain.SessionState, domain.StepResult, error)
	ChoosePolicy(ctx context.Context, state domain.SessionState, indices []int) (domain.SessionState, domain.StepResult, error)
	Reset(state domain.SessionState) domain.SessionState
}

// WorkflowSessions runs the workflow for many independent conversations.
// Calls for the same session are serialised.
type WorkflowSessions interface {
	// Start creates a new session and returns it.
	Start(ctx context.Context) (*domain.SessionState, error)

	// Get returns a session by ID.
	Get(ctx context.Context, id string) (*domain.SessionState, error)

	Step(ctx context.Context, id, input string) (domain.StepResult, error)
	ChooseNews(ctx context.Context, id, title string) (domain.StepResult, error)
	ChooseConsult(ctx context.Context, id, title string) (domain.StepResult, error)
	ChoosePolicy(ctx context.Context, id string, indices []int) (domain.StepResult, error)

	// Reset returns a session to its initial phase.
	Reset(ctx context.Context, id string) error

	// End discards a session.
	End(ctx context.Context, id string) error
}
