// Package newsletter provides the conversational newsletter view for the TUI.
package newsletter

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexbrief/internal/adapters/driven/render"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/chat"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

// ErrNoSessions is returned when the view has no session manager.
var ErrNoSessions = errors.New("newsletter workflow is not available")

// maxListHeight caps the option list, in lines.
const maxListHeight = 12

type speaker int

const (
	speakerAssistant speaker = iota
	speakerUser
	speakerError
)

type entry struct {
	who  speaker
	text string
}

// PreviewFunc renders a Markdown document for the terminal.
type PreviewFunc func(markdown string, width int) (string, error)

// View is the newsletter conversation: a transcript, the current option
// list and an input line.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	sessions   driving.WorkflowSessions
	ctx        context.Context
	preview    PreviewFunc
	prompt     *input.Prompt
	options    *list.OptionList
	statusbar  *status.Bar
	transcript viewport.Model

	conv      *chat.Conversation
	entries   []entry
	phase     domain.Phase
	focusList bool
	busy      bool
	document  *domain.RenderedDocument

	width  int
	height int
	ready  bool
}

// NewView creates a newsletter view.
func NewView(s *styles.Styles, km *keymap.KeyMap, sessions driving.WorkflowSessions) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		sessions:   sessions,
		ctx:        context.Background(),
		preview:    render.Preview,
		prompt:     input.NewPrompt(s, ">", "type a topic"),
		options:    list.NewOptionList(s),
		statusbar:  status.NewBar(s, km),
		transcript: viewport.New(80, 10),
		width:      80,
		height:     24,
	}
	v.statusbar.SetHints(km.ChatHelp())
	return v
}

// WithContext sets the context used for workflow calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithPreview replaces the Markdown previewer. Nil disables previews.
func (v *View) WithPreview(fn PreviewFunc) *View {
	v.preview = fn
	return v
}

// Init opens a session on first use.
func (v *View) Init() tea.Cmd {
	if v.conv != nil || v.busy {
		return v.prompt.Init()
	}
	v.busy = true
	v.statusbar.SetState(status.StateWorking)
	v.statusbar.SetMessage("Starting session...")
	return tea.Batch(v.prompt.Init(), v.start())
}

func (v *View) start() tea.Cmd {
	sessions := v.sessions
	ctx := v.ctx
	return func() tea.Msg {
		if sessions == nil {
			return messages.SessionStarted{Err: ErrNoSessions}
		}
		conv, res, err := chat.Start(ctx, sessions)
		if err != nil {
			return messages.SessionStarted{Err: err}
		}
		return messages.SessionStarted{Conversation: conv, Phase: phaseOf(ctx, conv), Result: res}
	}
}

func (v *View) send(line string) tea.Cmd {
	conv := v.conv
	ctx := v.ctx
	return func() tea.Msg {
		res, err := conv.Send(ctx, line)
		return messages.StepCompleted{Input: line, Phase: phaseOf(ctx, conv), Result: res, Err: err}
	}
}

func (v *View) reset() tea.Cmd {
	conv := v.conv
	ctx := v.ctx
	return func() tea.Msg {
		res, err := conv.Reset(ctx)
		return messages.SessionReset{Phase: phaseOf(ctx, conv), Result: res, Err: err}
	}
}

// phaseOf looks up the session phase; an unknown phase leaves the label blank.
func phaseOf(ctx context.Context, conv *chat.Conversation) domain.Phase {
	st, err := conv.State(ctx)
	if err != nil || st == nil {
		return ""
	}
	return st.Phase
}

// Update handles messages for the newsletter view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.SessionStarted:
		v.busy = false
		if msg.Err != nil {
			v.fail(msg.Err)
			return v, nil
		}
		v.conv = msg.Conversation
		v.apply(msg.Phase, msg.Result)
		return v, nil

	case messages.StepCompleted:
		v.busy = false
		if msg.Err != nil {
			v.fail(msg.Err)
			return v, nil
		}
		v.apply(msg.Phase, msg.Result)
		return v, nil

	case messages.SessionReset:
		v.busy = false
		if msg.Err != nil {
			v.fail(msg.Err)
			return v, nil
		}
		v.entries = nil
		v.document = nil
		v.apply(msg.Phase, msg.Result)
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(msg.String(), v.keymap.Reset):
		if v.conv == nil || v.busy {
			return v, nil
		}
		v.working("Starting over...")
		return v, v.reset()
	case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	case keymap.Matches(msg.String(), v.keymap.Focus):
		if !v.options.IsEmpty() {
			v.setFocusList(!v.focusList)
		}
		return v, nil
	}

	if v.focusList {
		if msg.Type == tea.KeyEnter {
			return v.submit(v.pickInput())
		}
		v.options, _ = v.options.Update(msg)
		return v, nil
	}

	if msg.Type == tea.KeyEnter {
		line := strings.TrimSpace(v.prompt.Value())
		if line == "" {
			return v, nil
		}
		v.prompt.Reset()
		return v.submit(line)
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

// pickInput turns the option list state into the line chat.Send expects.
func (v *View) pickInput() string {
	if v.options.Multi() {
		checked := v.options.Checked()
		if len(checked) == 0 {
			return "none"
		}
		parts := make([]string, len(checked))
		for i, n := range checked {
			parts[i] = strconv.Itoa(n + 1)
		}
		return strings.Join(parts, ",")
	}
	return strconv.Itoa(v.options.Selected() + 1)
}

func (v *View) submit(line string) (*View, tea.Cmd) {
	if v.conv == nil || v.busy {
		return v, nil
	}
	v.appendEntry(speakerUser, line)
	v.working("Working...")
	return v, v.send(line)
}

func (v *View) working(message string) {
	v.busy = true
	v.statusbar.SetState(status.StateWorking)
	v.statusbar.SetMessage(message)
}

func (v *View) fail(err error) {
	v.appendEntry(speakerError, err.Error())
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// apply shows a step result and arranges the option list for the next input.
func (v *View) apply(phase domain.Phase, res domain.StepResult) {
	v.phase = phase
	v.statusbar.Clear()
	v.statusbar.SetLabel(phase.Description())

	if res.Message != "" {
		v.appendEntry(speakerAssistant, res.Message)
	}

	if len(res.Options) > 0 {
		v.options.SetOptions(res.Options, res.Type == domain.StepPolicyOptions)
		v.statusbar.SetCount(len(res.Options), "options")
		v.setFocusList(true)
	} else {
		v.options.SetOptions(nil, false)
		v.setFocusList(false)
	}

	if res.Document != nil {
		v.document = res.Document
		v.appendDocument(res.Document)
	}
	v.layout()
}

func (v *View) appendDocument(doc *domain.RenderedDocument) {
	if doc.Path != "" {
		v.appendEntry(speakerAssistant, "Saved to "+doc.Path)
		v.statusbar.SetMessage("Saved " + doc.Title)
	}
	if v.preview == nil || domain.OutputFormat(doc.Format) != domain.OutputFormatMarkdown {
		return
	}
	out, err := v.preview(string(doc.Content), v.width-4)
	if err != nil {
		v.appendEntry(speakerError, "preview unavailable: "+err.Error())
		return
	}
	v.entries = append(v.entries, entry{who: speakerAssistant, text: out})
	v.refresh()
}

func (v *View) setFocusList(on bool) {
	v.focusList = on
	if on {
		v.prompt.Blur()
		v.statusbar.SetHints(v.keymap.OptionsHelp(v.options.Multi()))
		return
	}
	v.prompt.Focus()
	v.prompt.SetPlaceholder(placeholderFor(v.phase))
	v.statusbar.SetHints(v.keymap.ChatHelp())
}

func placeholderFor(phase domain.Phase) string {
	switch phase {
	case domain.PhaseAwaitingNewsPick, domain.PhaseAwaitingConsultPick:
		return "option number or exact title"
	case domain.PhaseAwaitingPolicyPick:
		return "numbers such as 1,3 or none"
	case domain.PhaseReadyToGenerate:
		return "생성"
	default:
		return "type a topic"
	}
}

func (v *View) appendEntry(who speaker, text string) {
	v.entries = append(v.entries, entry{who: who, text: text})
	v.refresh()
}

// refresh re-renders the transcript and scrolls to the newest entry.
func (v *View) refresh() {
	v.transcript.SetContent(v.renderTranscript())
	v.transcript.GotoBottom()
}

func (v *View) renderTranscript() string {
	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))
	blocks := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		var label, body string
		switch e.who {
		case speakerUser:
			label = v.styles.User.Render("You")
			body = v.styles.Normal.Render(e.text)
		case speakerError:
			label = v.styles.Error.Render("Error")
			body = v.styles.Error.Render(e.text)
		default:
			label = v.styles.Assistant.Render("lexbrief")
			body = v.emphasise(e.text)
		}
		blocks = append(blocks, label+"\n"+wrap.Render(body))
	}
	return strings.Join(blocks, "\n\n")
}

// emphasise renders **bold** spans; an unpaired marker is left as text.
func (v *View) emphasise(text string) string {
	parts := strings.Split(text, "**")
	if len(parts)%2 == 0 {
		return v.styles.Normal.Render(text)
	}
	var b strings.Builder
	for i, p := range parts {
		if i%2 == 1 {
			b.WriteString(v.styles.Emphasis.Render(p))
		} else {
			b.WriteString(v.styles.Normal.Render(p))
		}
	}
	return b.String()
}

// layout divides the height between transcript, options and prompt.
func (v *View) layout() {
	listHeight := 0
	if !v.options.IsEmpty() {
		listHeight = min(v.options.Count()*2, maxListHeight)
	}
	v.options.SetDimensions(v.width, listHeight)

	// header, prompt (3 with border), status bar, spacing
	h := v.height - listHeight - 8
	if h < 3 {
		h = 3
	}
	v.transcript.Width = v.width
	v.transcript.Height = h
	v.refresh()
}

// View renders the newsletter view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Newsletter"),
		v.transcript.View(),
	}
	if !v.options.IsEmpty() {
		sections = append(sections, v.options.View())
	}
	sections = append(sections, v.prompt.View(), v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.prompt.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.layout()
}

// Close ends the session, if one was started.
func (v *View) Close(ctx context.Context) error {
	if v.conv == nil {
		return nil
	}
	err := v.conv.End(ctx)
	v.conv = nil
	return err
}

// Phase returns the session phase last reported by the workflow.
func (v *View) Phase() domain.Phase {
	return v.phase
}

// Busy reports whether a workflow call is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// ListFocused reports whether keys go to the option list.
func (v *View) ListFocused() bool {
	return v.focusList
}

// Options returns the options currently offered.
func (v *View) Options() []domain.Candidate {
	return v.options.Options()
}

// Document returns the last generated newsletter.
func (v *View) Document() *domain.RenderedDocument {
	return v.document
}

// Transcript returns the conversation as plain text, one entry per block.
func (v *View) Transcript() []string {
	out := make([]string, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.text
	}
	return out
}
