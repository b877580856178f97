package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/styles"
)

func TestNewPrompt(t *testing.T) {
	p := NewPrompt(styles.DefaultStyles(), "Search:", "query")

	require.NotNil(t, p)
	assert.Empty(t, p.Value())
	assert.True(t, p.Focused())
}

func TestNewPrompt_NilStyles(t *testing.T) {
	p := NewPrompt(nil, "", "")

	require.NotNil(t, p)
	assert.NotNil(t, p.styles)
}

func TestPrompt_Init(t *testing.T) {
	assert.NotNil(t, NewPrompt(nil, "", "").Init())
}

func TestPrompt_UpdateTypes(t *testing.T) {
	p := NewPrompt(nil, "", "")

	for _, r := range "주52" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "주52", p.Value())
}

func TestPrompt_View(t *testing.T) {
	assert.Contains(t, NewPrompt(nil, "Search:", "").View(), "Search:")
	assert.NotEmpty(t, NewPrompt(nil, "", "type here").View())
}

func TestPrompt_FocusBlur(t *testing.T) {
	p := NewPrompt(nil, "", "")

	p.Blur()
	assert.False(t, p.Focused())

	p.Focus()
	assert.True(t, p.Focused())
}

func TestPrompt_BlurredIgnoresKeys(t *testing.T) {
	p := NewPrompt(nil, "", "")
	p.Blur()

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Empty(t, p.Value())
}

func TestPrompt_SetValueAndReset(t *testing.T) {
	p := NewPrompt(nil, "", "")

	p.SetValue("최저임금")
	assert.Equal(t, "최저임금", p.Value())

	p.Reset()
	assert.Empty(t, p.Value())
}

func TestPrompt_SetWidth(t *testing.T) {
	p := NewPrompt(nil, "Search:", "")

	p.SetWidth(100)
	assert.Equal(t, 100, p.Width())

	p.SetWidth(5)
	assert.Equal(t, 20, p.textinput.Width)
}
