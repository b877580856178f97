package mcp

import (
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retriever searches the vector collections.
	Retriever driving.Retriever

	// Source lists configured sources.
	Source driving.SourceService

	// Sync runs ingestion for a source.
	Sync driving.SyncOrchestrator

	// Records reads stored records.
	Records driving.RecordService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
