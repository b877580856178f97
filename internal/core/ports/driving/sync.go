package driving

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// SyncOrchestrator coordinates record ingestion from sources.
type SyncOrchestrator interface {
	// Sync runs one ingestion pass for a source and indexes what it committed.
	Sync(ctx context.Context, sourceID string, opts domain.SyncOptions) (*domain.SyncResult, error)

	// SyncAll runs Sync for every configured source in turn.
	SyncAll(ctx context.Context, opts domain.SyncOptions) ([]domain.SyncResult, error)

	// Status returns sync status for a source.
	Status(ctx context.Context, sourceID string) (*SyncStatus, error)
}

// SyncStatus represents the current state of a sync operation.
type SyncStatus struct {
	// SourceID identifies the source.
	SourceID string

	// Running indicates if sync is currently in progress.
	Running bool

	// Page is the list page currently being scanned.
	Page int

	// RecordsProcessed counts list rows examined so far.
	RecordsProcessed int

	// ErrorCount is the number of detail fetches that failed.
	ErrorCount int
}
