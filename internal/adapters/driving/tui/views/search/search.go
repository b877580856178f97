// Package search provides the consultation archive search view for the TUI.
package search

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

// detailLines caps the preview of the highlighted hit.
const detailLines = 8

// View is the search view: a query prompt, the hit list and a preview of
// the highlighted hit.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	prompt    *input.Prompt
	list      *list.OptionList
	statusbar *status.Bar

	retriever   driving.Retriever
	collections []string
	topK        int
	ctx         context.Context

	hits       []domain.SearchHit
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
}

// NewView creates a new search view. Empty collections search everything.
func NewView(s *styles.Styles, km *keymap.KeyMap, retriever driving.Retriever, collections []string, topK int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:      s,
		keymap:      km,
		prompt:      input.NewPrompt(s, "Search:", "e.g. 연차휴가 미사용 수당"),
		list:        list.NewOptionList(s),
		statusbar:   status.NewBar(s, km),
		retriever:   retriever,
		collections: collections,
		topK:        topK,
		ctx:         context.Background(),
		width:       80,
		height:      24,
		focusInput:  true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.prompt.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query := strings.TrimSpace(v.prompt.Value())
			if query == "" {
				return v, nil
			}
			v.statusbar.SetState(status.StateWorking)
			v.statusbar.SetMessage("Searching...")
			return v, v.performSearch(query)
		}
		var cmd tea.Cmd
		v.prompt, cmd = v.prompt.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "n", "/", "tab":
		v.focusInput = true
		v.prompt.SetValue("")
		return v, v.prompt.Focus()
	}
	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) performSearch(query string) tea.Cmd {
	retriever := v.retriever
	ctx := v.ctx
	collections := v.collections
	topK := v.topK
	return func() tea.Msg {
		if retriever == nil {
			return messages.ErrorOccurred{Err: ErrNoRetriever}
		}
		hits, err := retriever.Search(ctx, collections, query, topK)
		return messages.SearchCompleted{Query: query, Hits: hits, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.hits = msg.Hits
	candidates := make([]domain.Candidate, len(msg.Hits))
	for i, h := range msg.Hits {
		candidates[i] = domain.CandidateFromHit(h)
		candidates[i].Date = fmt.Sprintf("distance %.3f", h.Distance)
	}
	v.list.SetOptions(candidates, false)
	v.statusbar.Clear()
	v.statusbar.SetCount(len(msg.Hits), "hits")
	if len(msg.Hits) == 0 {
		v.statusbar.SetMessage("No results found")
		return
	}
	v.focusInput = false
	v.prompt.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Consultation archive"),
		"",
		v.prompt.View(),
		"",
	}
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	if len(v.hits) > 0 {
		sections = append(sections,
			v.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(v.hits))),
			v.list.View(),
			"",
			v.renderDetail(),
		)
	}
	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderDetail previews the highlighted hit's indexed document.
func (v *View) renderDetail() string {
	i := v.list.Selected()
	if i < 0 || i >= len(v.hits) {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(v.hits[i].Document), "\n")
	if len(lines) > detailLines {
		lines = append(lines[:detailLines], "…")
	}
	body := lipgloss.NewStyle().Width(max(v.width-4, 20)).Render(strings.Join(lines, "\n"))
	return v.styles.Border.Padding(0, 1).Render(v.styles.Normal.Render(body))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.prompt.SetWidth(width)
	v.list.SetDimensions(width, max(height-detailLines-12, 2))
	v.statusbar.SetWidth(width)
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.prompt.Value()
}

// Hits returns the current hits.
func (v *View) Hits() []domain.SearchHit {
	return v.hits
}

// SelectedIndex returns the index of the highlighted hit.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to an empty query.
func (v *View) Reset() {
	v.focusInput = true
	v.prompt.Focus()
	v.prompt.SetValue("")
	v.list.SetOptions(nil, false)
	v.hits = nil
	v.err = nil
	v.statusbar.Clear()
}
