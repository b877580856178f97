package driving

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// Retriever searches several vector collections at once.
type Retriever interface {
	// Search embeds query once, queries every existing named collection and
	// returns the topK closest hits overall. An empty collection list
	// searches all collections.
	Search(ctx context.Context, collections []string, query string, topK int) ([]domain.SearchHit, error)

	// Collections lists the searchable collections.
	Collections(ctx context.Context) ([]domain.CollectionInfo, error)
}
