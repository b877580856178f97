// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/chat"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewNewsletter is the newsletter conversation.
	ViewNewsletter
	// ViewSearch searches the consultation archive.
	ViewSearch
	// ViewSources lists sources and runs syncs.
	ViewSources
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewNewsletter:
		return "newsletter"
	case ViewSearch:
		return "search"
	case ViewSources:
		return "sources"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SessionStarted carries a freshly opened newsletter conversation.
type SessionStarted struct {
	Conversation *chat.Conversation
	Phase        domain.Phase
	Result       domain.StepResult
	Err          error
}

// StepCompleted carries the workflow's answer to one input line.
type StepCompleted struct {
	Input  string
	Phase  domain.Phase
	Result domain.StepResult
	Err    error
}

// SessionReset signals the conversation went back to the first question.
type SessionReset struct {
	Phase  domain.Phase
	Result domain.StepResult
	Err    error
}

// SearchCompleted carries archive search hits back to the model.
type SearchCompleted struct {
	Query string
	Hits  []domain.SearchHit
	Err   error
}

// SourcesLoaded carries the list of sources from the service.
type SourcesLoaded struct {
	Sources []domain.Source
	Err     error
}

// SyncCompleted signals a source sync finished.
type SyncCompleted struct {
	SourceID string
	Result   *domain.SyncResult
	Err      error
}
