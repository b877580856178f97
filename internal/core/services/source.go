package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages source configurations.
type SourceService struct {
	sourceStore driven.SourceStore
	recordStore driven.RecordStore
	registry    driving.ConnectorRegistry
	now         func() time.Time
}

// NewSourceService creates a new source service.
// The record store is optional; without it Remove leaves records behind.
func NewSourceService(
	sourceStore driven.SourceStore,
	recordStore driven.RecordStore,
	registry driving.ConnectorRegistry,
) *SourceService {
	return &SourceService{
		sourceStore: sourceStore,
		recordStore: recordStore,
		registry:    registry,
		now:         time.Now,
	}
}

// Add creates a new source configuration. The collection defaults to the
// connector type's collection.
func (s *SourceService) Add(ctx context.Context, source domain.Source) error {
	if source.ID == "" {
		return fmt.Errorf("%w: source ID is required", domain.ErrInvalidInput)
	}
	if err := s.ValidateConfig(ctx, source.Type, source.Config); err != nil {
		return err
	}

	existing, err := s.sourceStore.Get(ctx, source.ID)
	if err == nil && existing != nil {
		return fmt.Errorf("%w: source %s", domain.ErrAlreadyExists, source.ID)
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get source: %w", err)
	}

	if ct, err := s.registry.Get(source.Type); err == nil {
		if source.Collection == "" {
			source.Collection = ct.DefaultCollection
		}
		if source.Name == "" {
			source.Name = ct.Name
		}
	}
	now := s.now()
	source.CreatedAt = now
	source.UpdatedAt = now
	return s.sourceStore.Save(ctx, source)
}

// Get retrieves a source by ID.
func (s *SourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	return s.sourceStore.Get(ctx, id)
}

// List returns all configured sources.
func (s *SourceService) List(ctx context.Context) ([]domain.Source, error) {
	return s.sourceStore.List(ctx)
}

// Remove deletes a source and its stored records. Entries already in its
// vector collection are kept because collections are append-only.
func (s *SourceService) Remove(ctx context.Context, id string) error {
	if _, err := s.sourceStore.Get(ctx, id); err != nil {
		return err
	}
	if s.recordStore != nil {
		if err := s.recordStore.DeleteSource(ctx, id); err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
	}
	return s.sourceStore.Delete(ctx, id)
}

// EnsureDefaults creates one source per connector type when none exist.
// Types that need configuration are skipped.
func (s *SourceService) EnsureDefaults(ctx context.Context) error {
	sources, err := s.sourceStore.List(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}
	if len(sources) > 0 {
		return nil
	}

	for _, ct := range s.registry.List() {
		if ct.NeedsConfig() {
			continue
		}
		source := domain.Source{
			ID:         ct.DefaultCollection,
			Type:       ct.ID,
			Name:       ct.Name,
			Collection: ct.DefaultCollection,
			Config:     map[string]string{},
		}
		if err := s.Add(ctx, source); err != nil {
			return fmt.Errorf("add default source %s: %w", source.ID, err)
		}
		logger.Info("Created default source %s (%s)", source.ID, ct.ID)
	}
	return nil
}

// ValidateConfig validates source configuration for a connector type.
func (s *SourceService) ValidateConfig(_ context.Context, connectorType string, config map[string]string) error {
	if s.registry == nil {
		return fmt.Errorf("%w: no connector registry", domain.ErrUnsupportedType)
	}

	connType, err := s.registry.Get(connectorType)
	if err != nil {
		return fmt.Errorf("unknown connector type %q: %w", connectorType, err)
	}

	known := make(map[string]bool, len(connType.ConfigKeys))
	var missingKeys []string
	for _, key := range connType.ConfigKeys {
		known[key.Key] = true
		if key.Required {
			value, exists := config[key.Key]
			if !exists || value == "" {
				missingKeys = append(missingKeys, key.Key)
			}
		}
	}
	if len(missingKeys) > 0 {
		return fmt.Errorf("%w: missing required config keys: %v", domain.ErrInvalidInput, missingKeys)
	}

	for key, value := range config {
		if !known[key] {
			return fmt.Errorf("%w: unknown config key %q for %s", domain.ErrInvalidInput, key, connectorType)
		}
		if value == "" {
			continue
		}
		switch key {
		case domain.SourceConfigMaxPages, domain.SourceConfigStopAfterComplete,
			domain.SourceConfigChunkSize, domain.SourceConfigChunkOverlap:
			if n, err := strconv.Atoi(value); err != nil || n < 0 {
				return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
			}
		case domain.SourceConfigBaseURL:
			u, err := url.Parse(value)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("%w: %s must be an absolute URL", domain.ErrInvalidInput, key)
			}
		}
	}
	return nil
}
