package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/views/newsletter"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/views/sources"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

// Config tunes the views.
type Config struct {
	// SearchCollections limits archive search. Empty searches every collection.
	SearchCollections []string

	// TopK is the number of archive hits shown.
	TopK int

	// Sync bounds syncs started from the sources view.
	Sync domain.SyncOptions
}

// App is the main TUI application following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView       *menu.View
	newsletterView *newsletter.View
	searchView     *search.View
	sourcesView    *sources.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, cfg Config) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		menuView:       menu.NewView(s),
		newsletterView: newsletter.NewView(s, km, ports.Sessions),
		searchView:     search.NewView(s, km, ports.Retriever, cfg.SearchCollections, cfg.TopK),
		sourcesView:    sources.NewView(s, ports.Source, ports.Sync, cfg.Sync),
		currentView:    messages.ViewMenu,
	}, nil
}

// WithContext sets the context passed to every view.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.newsletterView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	a.sourcesView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("lexbrief"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
		case messages.ViewNewsletter:
			a.newsletterView, cmd = a.newsletterView.Update(msg)
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewSources:
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			a.sourcesView, cmd = a.sourcesView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "q" {
				a.currentView = messages.ViewMenu
			}
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewNewsletter:
			return a, a.newsletterView.Init()
		case messages.ViewSearch:
			a.searchView.Reset()
			return a, a.searchView.Init()
		case messages.ViewSources:
			return a, a.sourcesView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	case messages.SessionStarted, messages.StepCompleted, messages.SessionReset:
		// Workflow answers arrive even after the user left the view.
		a.newsletterView, cmd = a.newsletterView.Update(msg)
		return a, cmd

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.SourcesLoaded, messages.SyncCompleted:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		logger.Debug("tui: %v", msg.Err)
		if a.currentView == messages.ViewSearch {
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages, such as cursor blinks, to the active view.
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewNewsletter:
		a.newsletterView, cmd = a.newsletterView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewSources:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewNewsletter:
		return a.newsletterView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewSources:
		return a.sourcesView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Menu:
  j/k, ↑/↓    Navigate
  enter       Select
  q           Quit

Newsletter:
  enter       Send the line, or pick the highlighted option
  space       Toggle a policy announcement
  tab         Switch between option list and input
  ctrl+r      Start over
  pgup/pgdn   Scroll the conversation
  esc         Back to menu (the session is kept)

Search:
  enter       Search
  j/k         Move through hits
  n           New search

Sources:
  s, enter    Sync the highlighted source
  r           Reload

ctrl+c quits from anywhere.

[esc] back to menu`
}

// Run starts the TUI and ends the newsletter session on exit.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if cerr := a.newsletterView.Close(context.WithoutCancel(a.ctx)); cerr != nil {
		logger.Warn("tui: end session: %v", cerr)
	}
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.newsletterView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.sourcesView.SetDimensions(width, height)
}
