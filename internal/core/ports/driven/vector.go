package driven

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// VectorStore holds named, append-only vector collections.
// Entry IDs are assigned from the collection's current count and never reused.
type VectorStore interface {
	// Collections lists existing collections in name order.
	Collections(ctx context.Context) ([]domain.CollectionInfo, error)

	// Count returns the number of entries in a collection (0 if absent).
	Count(ctx context.Context, collection string) (int, error)

	// Append adds entries to a collection, creating it on first use,
	// and returns the assigned IDs.
	Append(ctx context.Context, collection string, entries []domain.VectorEntry) ([]int64, error)

	// Query returns up to topK nearest entries ordered by ascending distance.
	// Equal distances are ordered by ascending entry ID.
	Query(ctx context.Context, collection string, embedding []float32, topK int) ([]domain.SearchHit, error)
}
