// Package tui provides the interactive terminal interface for lexbrief.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Sessions runs newsletter conversations.
	Sessions driving.WorkflowSessions

	// Retriever searches the consultation archive. Optional.
	Retriever driving.Retriever

	// Source lists the configured sources. Optional.
	Source driving.SourceService

	// Sync synchronises a source on demand. Optional.
	Sync driving.SyncOrchestrator
}

// NewPorts creates a Ports aggregate.
func NewPorts(
	sessions driving.WorkflowSessions,
	retriever driving.Retriever,
	source driving.SourceService,
	sync driving.SyncOrchestrator,
) *Ports {
	return &Ports{
		Sessions:  sessions,
		Retriever: retriever,
		Source:    source,
		Sync:      sync,
	}
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Sessions == nil {
		return ErrMissingWorkflowSessions
	}
	return nil
}
