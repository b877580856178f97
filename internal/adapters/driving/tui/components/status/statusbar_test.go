package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.Count())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilDeps(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestBar_InitUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())
	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Same(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *Bar)
		want  []string
	}{
		{"ready", func(*Bar) {}, []string{"Ready", "quit"}},
		{"working default", func(b *Bar) { b.SetState(StateWorking) }, []string{"Working..."}},
		{"working message", func(b *Bar) {
			b.SetState(StateWorking)
			b.SetMessage("Searching news")
		}, []string{"Searching news"}},
		{"error", func(b *Bar) { b.SetState(StateError) }, []string{"Error"}},
		{"error message", func(b *Bar) {
			b.SetState(StateError)
			b.SetMessage("connection failed")
		}, []string{"Error: connection failed"}},
		{"help", func(b *Bar) { b.SetState(StateHelp) }, []string{"Help"}},
		{"count", func(b *Bar) { b.SetCount(5, "hits") }, []string{"5 hits"}},
		{"label", func(b *Bar) { b.SetLabel("News topic") }, []string{"News topic", "Ready"}},
		{"hints", func(b *Bar) { b.SetHints(keymap.DefaultKeyMap().SourcesHelp()) }, []string{"s: sync"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			tt.setup(bar)

			view := bar.View()
			for _, w := range tt.want {
				assert.Contains(t, view, w)
			}
		})
	}
}

func TestBar_SetCountKeepsNoun(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetCount(3, "")
	assert.Contains(t, bar.View(), "3 results")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("error message")
	bar.SetCount(10, "")
	bar.SetLabel("Ready to generate")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.Count())
	assert.Equal(t, "Ready to generate", bar.Label())
}
