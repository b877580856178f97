package driven

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// Connector reads one record source.
// Connectors own page parsing, request timeouts and field mapping;
// the ingestion engine owns pacing, change detection and persistence.
type Connector interface {
	// Type returns the connector type identifier (e.g. "moel_iqrs").
	Type() string

	// SourceID returns the source this connector reads.
	SourceID() string

	// FetchList returns the records on a 1-based list page.
	// An empty slice means there are no more pages.
	FetchList(ctx context.Context, page int) ([]domain.ListRecord, error)

	// FetchDetail returns the detail fields behind a record link.
	FetchDetail(ctx context.Context, link string) (domain.DetailFields, error)

	// Close releases resources.
	Close() error
}

// ConnectorBuilder creates a Connector from a Source.
type ConnectorBuilder func(source domain.Source) (Connector, error)

// ConnectorFactory creates connectors from source configuration.
type ConnectorFactory interface {
	// Create returns a Connector for the given source.
	// Returns ErrUnsupportedType if the source type is unknown.
	Create(ctx context.Context, source domain.Source) (Connector, error)

	// Register adds a connector builder for the given type.
	Register(connectorType string, builder ConnectorBuilder)

	// SupportedTypes returns all registered connector types.
	SupportedTypes() []string
}
