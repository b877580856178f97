package services

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

// Ensure ConnectorRegistry implements the interface.
var _ driving.ConnectorRegistry = (*ConnectorRegistry)(nil)

// ConnectorRegistry provides information about available connector types.
// Only built-in types the connector factory can build are listed.
type ConnectorRegistry struct {
	connectors map[string]domain.ConnectorType
}

// NewConnectorRegistry creates a registry of the built-in connector types.
// A nil factory lists every built-in type.
func NewConnectorRegistry(factory driven.ConnectorFactory) *ConnectorRegistry {
	supported := map[string]bool{}
	if factory != nil {
		for _, t := range factory.SupportedTypes() {
			supported[t] = true
		}
	}

	r := &ConnectorRegistry{connectors: make(map[string]domain.ConnectorType)}
	for _, ct := range domain.BuiltinConnectorTypes() {
		if factory != nil && !supported[ct.ID] {
			continue
		}
		r.connectors[ct.ID] = ct
	}
	return r
}

// List returns all available connector types ordered by ID.
func (r *ConnectorRegistry) List() []domain.ConnectorType {
	result := make([]domain.ConnectorType, 0, len(r.connectors))
	for _, ct := range r.connectors {
		result = append(result, ct)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Get returns a connector type by ID.
func (r *ConnectorRegistry) Get(id string) (*domain.ConnectorType, error) {
	ct, ok := r.connectors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, id)
	}
	return &ct, nil
}
