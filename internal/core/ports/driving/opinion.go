package driving

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// OpinionWriter answers a free-form HR question with a legal opinion
// grounded on every indexed collection.
type OpinionWriter interface {
	Write(ctx context.Context, query string) (*domain.LegalOpinion, *domain.RenderedDocument, error)
}
