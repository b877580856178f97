package driven

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// Renderer turns an assembled newsletter into a document.
type Renderer interface {
	Render(ctx context.Context, newsletter domain.Newsletter) (*domain.RenderedDocument, error)
}

// OpinionRenderer turns a written legal opinion into a document.
type OpinionRenderer interface {
	RenderOpinion(ctx context.Context, opinion domain.LegalOpinion) (*domain.RenderedDocument, error)
}
