package driving

import "github.com/custodia-labs/lexbrief/internal/core/domain"

// ConnectorRegistry describes the connector types sources can use.
type ConnectorRegistry interface {
	// List returns all available connector types.
	List() []domain.ConnectorType

	// Get returns a connector type by ID.
	Get(id string) (*domain.ConnectorType, error)
}
