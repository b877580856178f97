// Package sources provides the sources view component for the TUI.
package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

var (
	errNoSourceService = errors.New("source service not available")
	errNoSync          = errors.New("sync not available")
)

// View lists sources and runs on-demand syncs.
type View struct {
	styles        *styles.Styles
	sourceService driving.SourceService
	syncService   driving.SyncOrchestrator
	syncOpts      domain.SyncOptions
	ctx           context.Context

	sources  []domain.Source
	results  map[string]string // sourceID -> last sync summary
	syncing  map[string]bool
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new sources view. syncOpts bounds syncs started here.
func NewView(
	s *styles.Styles,
	sourceService driving.SourceService,
	syncService driving.SyncOrchestrator,
	syncOpts domain.SyncOptions,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		sourceService: sourceService,
		syncService:   syncService,
		syncOpts:      syncOpts,
		ctx:           context.Background(),
		results:       make(map[string]string),
		syncing:       make(map[string]bool),
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads sources.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadSources()
}

func (v *View) loadSources() tea.Cmd {
	svc := v.sourceService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.SourcesLoaded{Err: errNoSourceService}
		}
		sources, err := svc.List(ctx)
		return messages.SourcesLoaded{Sources: sources, Err: err}
	}
}

func (v *View) syncSource(id string) tea.Cmd {
	svc := v.syncService
	ctx := v.ctx
	opts := v.syncOpts
	return func() tea.Msg {
		if svc == nil {
			return messages.SyncCompleted{SourceID: id, Err: errNoSync}
		}
		res, err := svc.Sync(ctx, id, opts)
		return messages.SyncCompleted{SourceID: id, Result: res, Err: err}
	}
}

// Update handles messages for the sources view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourcesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.sources = msg.Sources
		v.err = nil
		if v.selected >= len(v.sources) {
			v.selected = max(len(v.sources)-1, 0)
		}
		return v, nil

	case messages.SyncCompleted:
		delete(v.syncing, msg.SourceID)
		v.results[msg.SourceID] = summarise(msg.Result, msg.Err)
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.sources)-1 {
			v.selected++
		}
	case "s", "enter":
		if v.selected < len(v.sources) {
			id := v.sources[v.selected].ID
			if v.syncing[id] {
				return v, nil
			}
			v.syncing[id] = true
			v.results[id] = "syncing..."
			return v, v.syncSource(id)
		}
	case "r":
		v.loading = true
		return v, v.loadSources()
	}

	return v, nil
}

// summarise formats a sync outcome for the list.
func summarise(res *domain.SyncResult, err error) string {
	var parts []string
	if res != nil {
		parts = append(parts, fmt.Sprintf("%d new, %d updated, %d indexed, %d pages",
			res.NewCount, res.UpdatedCount, res.Indexed, res.PagesScanned))
		if res.DetailFailures > 0 {
			parts = append(parts, fmt.Sprintf("%d detail failures", res.DetailFailures))
		}
		if res.StoppedEarly {
			parts = append(parts, "stopped early")
		}
	}
	if err != nil {
		parts = append(parts, "error: "+err.Error())
	}
	if len(parts) == 0 {
		return "done"
	}
	return strings.Join(parts, "; ")
}

// View renders the sources view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Sources"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading sources..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.sources) == 0:
		b.WriteString(v.styles.Muted.Render("No sources configured."))
	default:
		for i := range v.sources {
			b.WriteString(v.renderSource(i, &v.sources[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[s/enter] sync  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderSource(index int, source *domain.Source) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	name := source.Name
	if name == "" {
		name = source.ID
	}
	typeStr := fmt.Sprintf("[%s]", source.Type)

	var line string
	if index == v.selected {
		line = v.styles.Selected.Render(fmt.Sprintf("%s%-20s %s", indicator, typeStr, name))
	} else {
		line = v.styles.Normal.Render(indicator) +
			v.styles.Subtitle.Render(fmt.Sprintf("%-20s ", typeStr)) +
			v.styles.Normal.Render(name)
	}
	line += v.styles.Muted.Render("  → " + source.CollectionName())

	if summary, ok := v.results[source.ID]; ok {
		style := v.styles.Success
		if strings.Contains(summary, "error:") {
			style = v.styles.Error
		}
		line += "\n      " + style.Render(summary)
	}
	return line
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Sources returns the current list of sources.
func (v *View) Sources() []domain.Source {
	return v.sources
}

// SelectedIndex returns the currently selected source index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Syncing reports whether a sync for the source is in flight.
func (v *View) Syncing(id string) bool {
	return v.syncing[id]
}
