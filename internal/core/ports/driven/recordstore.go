package driven

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// RecordStore persists records, one row per (source, key).
// Only the ingestion engine writes; any number of readers is allowed.
type RecordStore interface {
	// Upsert inserts or overwrites a record.
	Upsert(ctx context.Context, rec domain.StoredRecord) error

	// Get retrieves a record. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, sourceID, key string) (*domain.StoredRecord, error)

	// List returns a source's records, most recently updated first.
	// A limit of zero or less returns all records.
	List(ctx context.Context, sourceID string, limit int) ([]domain.StoredRecord, error)

	// ListUnindexed returns records whose current version has not been
	// appended to a collection, in insertion order.
	ListUnindexed(ctx context.Context, sourceID string) ([]domain.StoredRecord, error)

	// MarkIndexed flags the given keys as indexed.
	MarkIndexed(ctx context.Context, sourceID string, keys []string) error

	// Count returns the number of records stored for a source.
	Count(ctx context.Context, sourceID string) (int, error)

	// DeleteSource removes every record of a source.
	DeleteSource(ctx context.Context, sourceID string) error
}
