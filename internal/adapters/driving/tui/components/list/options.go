// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// OptionList displays candidates in a navigable list. In multi mode
// several candidates can be toggled.
type OptionList struct {
	options  []domain.Candidate
	checked  map[int]bool
	multi    bool
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewOptionList creates an empty option list.
func NewOptionList(s *styles.Styles) *OptionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &OptionList{
		checked: make(map[int]bool),
		styles:  s,
		width:   80,
		height:  10,
	}
}

// Init initialises the list.
func (l *OptionList) Init() tea.Cmd {
	return nil
}

// Update handles navigation and toggling.
func (l *OptionList) Update(msg tea.Msg) (*OptionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case " ":
			l.Toggle()
		}
	}
	return l, nil
}

// View renders the list.
func (l *OptionList) View() string {
	if len(l.options) == 0 {
		return l.styles.Muted.Render("No options")
	}

	// Each option takes two lines.
	visible := l.height / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.options) {
		end = len(l.options)
	}

	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderOption(i))
	}
	return strings.Join(lines, "\n")
}

func (l *OptionList) renderOption(i int) string {
	c := l.options[i]

	indicator := "  "
	if i == l.selected {
		indicator = "> "
	}
	mark := ""
	if l.multi {
		mark = "[ ] "
		if l.checked[i] {
			mark = l.styles.Checked.Render("[x]") + " "
		}
	}

	title := c.Title
	if title == "" {
		title = "(untitled)"
	}
	maxTitle := l.width - 12
	if maxTitle < 10 {
		maxTitle = 10
	}
	title = truncate(title, maxTitle)

	label := fmt.Sprintf("%s%d. %s", indicator, i+1, title)
	var line string
	if i == l.selected {
		line = mark + l.styles.Selected.Render(label)
	} else {
		line = mark + l.styles.Normal.Render(label)
	}

	meta := make([]string, 0, 2)
	if c.Source != "" {
		meta = append(meta, c.Source)
	}
	if c.Date != "" {
		meta = append(meta, c.Date)
	}
	return line + "\n" + l.styles.Muted.Render("      "+strings.Join(meta, " · "))
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// SetOptions replaces the options and clears selection state.
func (l *OptionList) SetOptions(options []domain.Candidate, multi bool) {
	l.options = options
	l.multi = multi
	l.selected = 0
	l.checked = make(map[int]bool)
}

// Options returns the current options.
func (l *OptionList) Options() []domain.Candidate {
	return l.options
}

// Multi reports whether several options can be toggled.
func (l *OptionList) Multi() bool {
	return l.multi
}

// Selected returns the highlighted index.
func (l *OptionList) Selected() int {
	return l.selected
}

// SelectedOption returns the highlighted option, or nil if none.
func (l *OptionList) SelectedOption() *domain.Candidate {
	if l.selected < 0 || l.selected >= len(l.options) {
		return nil
	}
	return &l.options[l.selected]
}

// Toggle flips the highlighted option in multi mode.
func (l *OptionList) Toggle() {
	if !l.multi || len(l.options) == 0 {
		return
	}
	if l.checked[l.selected] {
		delete(l.checked, l.selected)
		return
	}
	l.checked[l.selected] = true
}

// Checked returns the toggled indices in ascending order.
func (l *OptionList) Checked() []int {
	out := make([]int, 0, len(l.checked))
	for i := range l.checked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// MoveUp moves selection up.
func (l *OptionList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *OptionList) MoveDown() {
	if l.selected < len(l.options)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *OptionList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of options.
func (l *OptionList) Count() int {
	return len(l.options)
}

// IsEmpty returns whether the list is empty.
func (l *OptionList) IsEmpty() bool {
	return len(l.options) == 0
}
