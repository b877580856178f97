package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

// fakeSessions records the calls made by a Conversation.
type fakeSessions struct {
	state domain.SessionState
	calls []string
	args  []any
	err   error
}

var _ driving.WorkflowSessions = (*fakeSessions)(nil)

func (f *fakeSessions) record(call string, arg any) {
	f.calls = append(f.calls, call)
	f.args = append(f.args, arg)
}

func (f *fakeSessions) Start(_ context.Context) (*domain.SessionState, error) {
	f.record("start", nil)
	if f.err != nil {
		return nil, f.err
	}
	f.state.ID = "s1"
	s := f.state
	return &s, nil
}

func (f *fakeSessions) Get(_ context.Context, _ string) (*domain.SessionState, error) {
	s := f.state
	return &s, nil
}

func (f *fakeSessions) Step(_ context.Context, _, input string) (domain.StepResult, error) {
	f.record("step", input)
	return domain.StepResult{Type: domain.StepMessage, Message: "ok"}, nil
}

func (f *fakeSessions) ChooseNews(_ context.Context, _, title string) (domain.StepResult, error) {
	f.record("news", title)
	return domain.StepResult{}, nil
}

func (f *fakeSessions) ChooseConsult(_ context.Context, _, title string) (domain.StepResult, error) {
	f.record("consult", title)
	return domain.StepResult{}, nil
}

func (f *fakeSessions) ChoosePolicy(_ context.Context, _ string, indices []int) (domain.StepResult, error) {
	f.record("policy", indices)
	return domain.StepResult{}, nil
}

func (f *fakeSessions) Reset(_ context.Context, _ string) error {
	f.record("reset", nil)
	return nil
}

func (f *fakeSessions) End(_ context.Context, _ string) error {
	f.record("end", nil)
	return nil
}

func options(titles ...string) []domain.Candidate {
	out := make([]domain.Candidate, len(titles))
	for i, t := range titles {
		out[i] = domain.Candidate{Title: t}
	}
	return out
}

func TestStart(t *testing.T) {
	fs := &fakeSessions{}
	conv, res, err := Start(context.Background(), fs)
	require.NoError(t, err)
	assert.Equal(t, "s1", conv.ID())
	assert.Equal(t, "ok", res.Message)
	assert.Equal(t, []string{"start", "step"}, fs.calls)
	assert.Equal(t, "", fs.args[1])

	_, _, err = Start(context.Background(), &fakeSessions{err: errors.New("store down")})
	assert.Error(t, err)
}

func TestConversation_Send(t *testing.T) {
	ctx := context.Background()
	fs := &fakeSessions{}
	conv, _, err := Start(ctx, fs)
	require.NoError(t, err)

	tests := []struct {
		name  string
		state domain.SessionState
		input string
		call  string
		arg   any
	}{
		{"topic goes to step", domain.SessionState{Phase: domain.PhaseSetNewsTopic}, " 최저임금 ", "step", "최저임금"},
		{"news by number", domain.SessionState{Phase: domain.PhaseAwaitingNewsPick, NewsOptions: options("a", "b")}, "2", "news", "b"},
		{"news by title", domain.SessionState{Phase: domain.PhaseAwaitingNewsPick, NewsOptions: options("a", "b")}, "a", "news", "a"},
		{"news out of range is a title", domain.SessionState{Phase: domain.PhaseAwaitingNewsPick, NewsOptions: options("a")}, "5", "news", "5"},
		{"consult by number", domain.SessionState{Phase: domain.PhaseAwaitingConsultPick, ConsultOptions: options("x", "y")}, "1", "consult", "x"},
		{"policy list", domain.SessionState{Phase: domain.PhaseAwaitingPolicyPick, PolicyOptions: options("p", "q", "r")}, "1, 3", "policy", []int{0, 2}},
		{"policy none", domain.SessionState{Phase: domain.PhaseAwaitingPolicyPick, PolicyOptions: options("p")}, "없음", "policy", []int{}},
		{"generate", domain.SessionState{Phase: domain.PhaseReadyToGenerate}, "생성", "step", "생성"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs.state = tt.state
			fs.calls, fs.args = nil, nil
			_, err := conv.Send(ctx, tt.input)
			require.NoError(t, err)
			require.Len(t, fs.calls, 1)
			assert.Equal(t, tt.call, fs.calls[0])
			assert.Equal(t, tt.arg, fs.args[0])
		})
	}
}

func TestConversation_SendRejectsBadPolicyInput(t *testing.T) {
	ctx := context.Background()
	fs := &fakeSessions{}
	conv, _, err := Start(ctx, fs)
	require.NoError(t, err)

	fs.state = domain.SessionState{Phase: domain.PhaseAwaitingPolicyPick, PolicyOptions: options("p", "q")}
	fs.calls = nil
	_, err = conv.Send(ctx, "3")
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Empty(t, fs.calls)
}

func TestConversation_ResetAndEnd(t *testing.T) {
	ctx := context.Background()
	fs := &fakeSessions{}
	conv, _, err := Start(ctx, fs)
	require.NoError(t, err)
	fs.calls = nil

	_, err = conv.Reset(ctx)
	require.NoError(t, err)
	require.NoError(t, conv.End(ctx))
	assert.Equal(t, []string{"reset", "step", "end"}, fs.calls)
}

func TestParseIndices(t *testing.T) {
	got, err := ParseIndices("2 1", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, got)

	got, err = ParseIndices("NONE", 3)
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, bad := range []string{"", "0", "4", "a,b", ","} {
		_, err := ParseIndices(bad, 3)
		assert.ErrorIs(t, err, domain.ErrInvalidSelection, bad)
	}
}
