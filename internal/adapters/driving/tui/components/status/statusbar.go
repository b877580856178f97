// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady   State = "ready"
	StateWorking State = "working"
	StateError   State = "error"
	StateHelp    State = "help"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	label   string
	count   int
	noun    string
	hints   []key.Binding
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		noun:   "results",
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the bar is driven through its setters.
func (b *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Render(left + strings.Repeat(" ", padding) + right)
}

func (b *Bar) renderLeft() string {
	var parts []string
	if b.label != "" {
		parts = append(parts, b.styles.Subtitle.Render(b.label))
	}

	switch b.state {
	case StateWorking:
		msg := b.message
		if msg == "" {
			msg = "Working..."
		}
		parts = append(parts, b.styles.Warning.Render(msg))
	case StateError:
		if b.message != "" {
			parts = append(parts, b.styles.Error.Render("Error: "+b.message))
		} else {
			parts = append(parts, b.styles.Error.Render("Error"))
		}
	case StateHelp:
		parts = append(parts, b.styles.Normal.Render("Help"))
	case StateReady:
		switch {
		case b.message != "":
			parts = append(parts, b.styles.Success.Render(b.message))
		case b.count > 0:
			parts = append(parts, b.styles.Normal.Render(fmt.Sprintf("%d %s", b.count, b.noun)))
		default:
			parts = append(parts, b.styles.Muted.Render("Ready"))
		}
	}
	return strings.Join(parts, b.styles.Muted.Render(" · "))
}

func (b *Bar) renderRight() string {
	bindings := b.hints
	if len(bindings) == 0 {
		bindings = b.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Help.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets a custom message.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetLabel sets the leading label, such as the workflow phase.
func (b *Bar) SetLabel(label string) {
	b.label = label
}

// Label returns the leading label.
func (b *Bar) Label() string {
	return b.label
}

// SetCount shows "n noun" while ready.
func (b *Bar) SetCount(n int, noun string) {
	b.count = n
	if noun != "" {
		b.noun = noun
	}
}

// Count returns the current count.
func (b *Bar) Count() int {
	return b.count
}

// SetHints overrides the keybinding hints. Nil restores the defaults.
func (b *Bar) SetHints(hints []key.Binding) {
	b.hints = hints
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}

// Clear resets the status bar to its default state. Hints and label stay.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
	b.count = 0
}
