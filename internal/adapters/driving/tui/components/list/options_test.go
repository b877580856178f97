package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

func sampleOptions() []domain.Candidate {
	return []domain.Candidate{
		{Title: "주 52시간제 위반 사업장 적발", Source: "매일노동뉴스", Date: "2024-05-01"},
		{Title: "연차휴가 사용촉진 사례", Source: "iqrs"},
		{Title: "최저임금 고시"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewOptionList(t *testing.T) {
	l := NewOptionList(nil)

	require.NotNil(t, l)
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedOption())
	assert.Contains(t, l.View(), "No options")
}

func TestOptionList_Navigation(t *testing.T) {
	l := NewOptionList(nil)
	l.SetOptions(sampleOptions(), false)

	l, _ = l.Update(key("down"))
	l, _ = l.Update(key("j"))
	l, _ = l.Update(key("j"))
	assert.Equal(t, 2, l.Selected())

	l, _ = l.Update(key("k"))
	assert.Equal(t, 1, l.Selected())
	assert.Equal(t, "연차휴가 사용촉진 사례", l.SelectedOption().Title)

	l, _ = l.Update(key("up"))
	l, _ = l.Update(key("up"))
	assert.Equal(t, 0, l.Selected())
}

func TestOptionList_ToggleOnlyInMultiMode(t *testing.T) {
	l := NewOptionList(nil)
	l.SetOptions(sampleOptions(), false)
	l.Toggle()
	assert.Empty(t, l.Checked())

	l.SetOptions(sampleOptions(), true)
	l, _ = l.Update(key(" "))
	l.MoveDown()
	l.MoveDown()
	l, _ = l.Update(key(" "))
	assert.Equal(t, []int{0, 2}, l.Checked())

	l.Toggle()
	assert.Equal(t, []int{0}, l.Checked())
}

func TestOptionList_SetOptionsClearsState(t *testing.T) {
	l := NewOptionList(nil)
	l.SetOptions(sampleOptions(), true)
	l.MoveDown()
	l.Toggle()

	l.SetOptions(sampleOptions()[:1], false)

	assert.Equal(t, 0, l.Selected())
	assert.Empty(t, l.Checked())
	assert.False(t, l.Multi())
	assert.Equal(t, 1, l.Count())
}

func TestOptionList_View(t *testing.T) {
	l := NewOptionList(nil)
	l.SetOptions(sampleOptions(), true)
	l.Toggle()

	view := l.View()
	assert.Contains(t, view, "1. 주 52시간제")
	assert.Contains(t, view, "매일노동뉴스 · 2024-05-01")
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "[ ]")
}

func TestOptionList_ViewScrolls(t *testing.T) {
	l := NewOptionList(nil)
	l.SetOptions(sampleOptions(), false)
	l.SetDimensions(80, 2)
	l.MoveDown()
	l.MoveDown()

	view := l.View()
	assert.Contains(t, view, "3. 최저임금 고시")
	assert.NotContains(t, view, "1. ")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "근로기…", truncate("근로기준법 제50조", 4))
}
