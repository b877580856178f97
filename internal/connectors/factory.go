package connectors

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/lexbrief/internal/connectors/moel"
	"github.com/custodia-labs/lexbrief/internal/connectors/pdf"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ConnectorFactory = (*Factory)(nil)

// Factory creates connectors from source configuration.
type Factory struct {
	mu       sync.RWMutex
	builders map[string]driven.ConnectorBuilder
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{builders: make(map[string]driven.ConnectorBuilder)}
}

// NewDefaultFactory creates a factory with the built-in connectors.
func NewDefaultFactory() *Factory {
	f := NewFactory()
	f.Register(domain.ConnectorTypeIQRS, moel.NewIQRS)
	f.Register(domain.ConnectorTypeFastCounsel, moel.NewFastCounsel)
	f.Register(domain.ConnectorTypePDF, pdf.New)
	return f
}

// Register adds a connector builder for the given type, replacing any
// existing one.
func (f *Factory) Register(connectorType string, builder driven.ConnectorBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[connectorType] = builder
}

// Create returns a connector for the given source.
func (f *Factory) Create(_ context.Context, source domain.Source) (driven.Connector, error) {
	f.mu.RLock()
	builder, ok := f.builders[source.Type]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, source.Type)
	}
	conn, err := builder(source)
	if err != nil {
		return nil, fmt.Errorf("create %s connector for %s: %w", source.Type, source.ID, err)
	}
	return conn, nil
}

// SupportedTypes returns all registered connector types, sorted.
func (f *Factory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	types := make([]string, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
