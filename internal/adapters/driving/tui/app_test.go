package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

func newTestApp(t *testing.T) (*App, *mockSessions) {
	t.Helper()
	sessions := &mockSessions{}
	app, err := NewApp(NewPorts(sessions, mockRetriever{}, nil, nil), Config{TopK: 3})
	require.NoError(t, err)
	return app, sessions
}

func TestNewApp_InvalidPorts(t *testing.T) {
	_, err := NewApp(&Ports{}, Config{})

	assert.ErrorIs(t, err, ErrMissingWorkflowSessions)
}

func TestApp_InitialState(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := newTestApp(t)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Same(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Compose newsletter")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_NewsletterFlow(t *testing.T) {
	app, sessions := newTestApp(t)
	app.SetDimensions(100, 40)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewNewsletter})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewNewsletter, app.CurrentView())

	app.Update(findMsg[messages.SessionStarted](t, cmd))

	assert.Contains(t, app.View(), "뉴스 주제를 알려주세요.")
	assert.Equal(t, domain.PhaseAskNewsTopic, app.newsletterView.Phase())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewMenu, app.CurrentView())

	require.NoError(t, app.newsletterView.Close(context.Background()))
	assert.True(t, sessions.ended)
}

// findMsg runs cmd, expanding batches, and returns the first message of type T.
func findMsg[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case T:
			return msg
		case tea.BatchMsg:
			pending = append(pending, msg...)
		}
	}
	var zero T
	t.Fatalf("no %T produced", zero)
	return zero
}

func TestApp_SearchFlow(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetDimensions(100, 40)

	app.Update(messages.ViewChanged{View: messages.ViewSearch})
	app.Update(messages.SearchCompleted{Query: "연차", Hits: []domain.SearchHit{{Collection: "iqrs", ID: 1, Document: "Title: 연차"}}})

	assert.NoError(t, app.Err())
	assert.Contains(t, app.View(), "Results (1)")
}

func TestApp_SourcesEscReturnsToMenu(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetDimensions(100, 40)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewSources})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Contains(t, app.View(), "source service not available")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Help(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetDimensions(100, 40)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Contains(t, app.View(), "Toggle a policy announcement")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: domain.ErrEmbeddingUnavailable})

	assert.ErrorIs(t, app.Err(), domain.ErrEmbeddingUnavailable)
}
