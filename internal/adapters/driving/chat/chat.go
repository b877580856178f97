// Package chat turns free-form user lines into workflow session calls.
// It is shared by the line-mode newsletter command and the TUI.
package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

// noneInputs select no policy announcements.
var noneInputs = map[string]bool{"none": true, "없음": true, "-": true}

// Conversation is one user's newsletter session.
type Conversation struct {
	sessions driving.WorkflowSessions
	id       string
}

// Start opens a new session and returns it with the opening prompt.
func Start(ctx context.Context, sessions driving.WorkflowSessions) (*Conversation, domain.StepResult, error) {
	state, err := sessions.Start(ctx)
	if err != nil {
		return nil, domain.StepResult{}, fmt.Errorf("start session: %w", err)
	}
	c := &Conversation{sessions: sessions, id: state.ID}
	res, err := sessions.Step(ctx, c.id, "")
	if err != nil {
		return nil, domain.StepResult{}, err
	}
	return c, res, nil
}

// ID returns the session ID.
func (c *Conversation) ID() string { return c.id }

// State returns the current session state.
func (c *Conversation) State(ctx context.Context) (*domain.SessionState, error) {
	return c.sessions.Get(ctx, c.id)
}

// Send interprets one line of input for the session's current phase.
// While a pick is pending, numbers are 1-based positions in the option
// list; a news or consultation pick also accepts the exact title.
func (c *Conversation) Send(ctx context.Context, input string) (domain.StepResult, error) {
	state, err := c.sessions.Get(ctx, c.id)
	if err != nil {
		return domain.StepResult{}, err
	}
	input = strings.TrimSpace(input)

	switch state.Phase {
	case domain.PhaseAwaitingNewsPick:
		return c.sessions.ChooseNews(ctx, c.id, pickTitle(input, state.NewsOptions))
	case domain.PhaseAwaitingConsultPick:
		return c.sessions.ChooseConsult(ctx, c.id, pickTitle(input, state.ConsultOptions))
	case domain.PhaseAwaitingPolicyPick:
		indices, err := ParseIndices(input, len(state.PolicyOptions))
		if err != nil {
			return domain.StepResult{}, err
		}
		return c.sessions.ChoosePolicy(ctx, c.id, indices)
	default:
		return c.sessions.Step(ctx, c.id, input)
	}
}

// Reset starts the session over and returns the opening prompt.
func (c *Conversation) Reset(ctx context.Context) (domain.StepResult, error) {
	if err := c.sessions.Reset(ctx, c.id); err != nil {
		return domain.StepResult{}, err
	}
	return c.sessions.Step(ctx, c.id, "")
}

// End discards the session.
func (c *Conversation) End(ctx context.Context) error {
	return c.sessions.End(ctx, c.id)
}

func pickTitle(input string, options []domain.Candidate) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(options) {
		return options[n-1].Title
	}
	return input
}

// ParseIndices parses 1-based positions separated by commas or spaces into
// 0-based indices. "none" selects nothing.
func ParseIndices(input string, count int) ([]int, error) {
	input = strings.TrimSpace(input)
	if noneInputs[strings.ToLower(input)] {
		return []int{}, nil
	}
	fields := strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: enter option numbers such as 1,3 or 'none'", domain.ErrInvalidSelection)
	}
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > count {
			return nil, fmt.Errorf("%w: %q is not between 1 and %d", domain.ErrInvalidSelection, f, count)
		}
		out = append(out, n-1)
	}
	return out, nil
}
