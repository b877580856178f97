package driven

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// NewsSearcher finds news candidates for a topic.
type NewsSearcher interface {
	// Name identifies the searcher (e.g. "labortoday").
	Name() string

	// Search returns candidates for the topic, newest first.
	Search(ctx context.Context, topic string) ([]domain.Candidate, error)
}

// PolicySearcher lists recent policy announcements.
type PolicySearcher interface {
	Search(ctx context.Context, maxPages int) ([]domain.Candidate, error)
}

// ArticleFetcher fetches the full text of a news candidate.
type ArticleFetcher interface {
	FetchText(ctx context.Context, candidate domain.Candidate) (string, error)
}
