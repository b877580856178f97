package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

// Ensure RecordService implements the interface.
var _ driving.RecordService = (*RecordService)(nil)

// RecordService gives read access to ingested records.
type RecordService struct {
	recordStore driven.RecordStore
	sourceStore driven.SourceStore
}

// NewRecordService creates a new record service.
// sourceStore may be nil, in which case source IDs are not checked.
func NewRecordService(recordStore driven.RecordStore, sourceStore driven.SourceStore) *RecordService {
	return &RecordService{
		recordStore: recordStore,
		sourceStore: sourceStore,
	}
}

// List returns a source's records, most recently updated first.
func (s *RecordService) List(ctx context.Context, sourceID string, limit int) ([]domain.StoredRecord, error) {
	if err := s.checkSource(ctx, sourceID); err != nil {
		return nil, err
	}
	return s.recordStore.List(ctx, sourceID, limit)
}

// Get retrieves a single record.
func (s *RecordService) Get(ctx context.Context, sourceID, key string) (*domain.StoredRecord, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: record key is required", domain.ErrInvalidInput)
	}
	if err := s.checkSource(ctx, sourceID); err != nil {
		return nil, err
	}
	return s.recordStore.Get(ctx, sourceID, key)
}

// Count returns the number of records stored for a source.
func (s *RecordService) Count(ctx context.Context, sourceID string) (int, error) {
	if err := s.checkSource(ctx, sourceID); err != nil {
		return 0, err
	}
	return s.recordStore.Count(ctx, sourceID)
}

func (s *RecordService) checkSource(ctx context.Context, sourceID string) error {
	if sourceID == "" {
		return fmt.Errorf("%w: source ID is required", domain.ErrInvalidInput)
	}
	if s.sourceStore == nil {
		return nil
	}
	if _, err := s.sourceStore.Get(ctx, sourceID); err != nil {
		return fmt.Errorf("source %s: %w", sourceID, err)
	}
	return nil
}
