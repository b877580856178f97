package driving

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// SourceService manages source configurations.
type SourceService interface {
	// Add creates a new source configuration.
	Add(ctx context.Context, source domain.Source) error

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all configured sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Remove deletes a source and its stored records.
	// Entries already appended to its collection are kept.
	Remove(ctx context.Context, id string) error

	// EnsureDefaults creates one source per built-in connector type
	// when no sources are configured.
	EnsureDefaults(ctx context.Context) error

	// ValidateConfig validates source configuration for a connector type.
	ValidateConfig(ctx context.Context, connectorType string, config map[string]string) error
}
