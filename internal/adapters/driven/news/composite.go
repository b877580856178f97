package news

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

// Ensure Composite implements the interface.
var _ driven.NewsSearcher = (*Composite)(nil)

// Composite queries several searchers in parallel and concatenates their
// results in searcher order, keeping at most perSource from each.
// Titles are unique in the merged list: a repeated headline gets its
// source appended, so picking by title always finds the intended item.
//
// A failing searcher is logged and skipped; Search only fails when every
// searcher fails.
type Composite struct {
	searchers []driven.NewsSearcher
	perSource int
}

// NewComposite creates a composite searcher.
func NewComposite(perSource int, searchers ...driven.NewsSearcher) *Composite {
	if perSource <= 0 {
		perSource = domain.DefaultNewsPerSource
	}
	return &Composite{searchers: searchers, perSource: perSource}
}

// Name returns "composite".
func (c *Composite) Name() string { return "composite" }

// Searchers returns the names of the wrapped searchers.
func (c *Composite) Searchers() []string {
	names := make([]string, len(c.searchers))
	for i, s := range c.searchers {
		names[i] = s.Name()
	}
	return names
}

// Search runs every searcher for topic.
func (c *Composite) Search(ctx context.Context, topic string) ([]domain.Candidate, error) {
	if len(c.searchers) == 0 {
		return nil, fmt.Errorf("%w: no news sources configured", domain.ErrInvalidInput)
	}

	results := make([][]domain.Candidate, len(c.searchers))
	errs := make([]error, len(c.searchers))

	var eg errgroup.Group
	for i, s := range c.searchers {
		eg.Go(func() error {
			found, err := s.Search(ctx, topic)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", s.Name(), err)
				logger.Warn("news: %s search failed: %v", s.Name(), err)
				return nil
			}
			if len(found) > c.perSource {
				found = found[:c.perSource]
			}
			results[i] = found
			logger.Debug("news: %s returned %d candidates", s.Name(), len(found))
			return nil
		})
	}
	_ = eg.Wait()

	var out []domain.Candidate
	failed := 0
	for i := range c.searchers {
		if errs[i] != nil {
			failed++
			continue
		}
		out = append(out, results[i]...)
	}
	if failed == len(c.searchers) {
		return nil, errors.Join(errs...)
	}
	return uniqueTitles(out), nil
}

// uniqueTitles renames repeated titles to "<title> (<source>)", falling
// back to a counter when that is taken too. The first occurrence keeps its
// title.
func uniqueTitles(cands []domain.Candidate) []domain.Candidate {
	seen := make(map[string]bool, len(cands))
	for i := range cands {
		title := cands[i].Title
		if seen[title] {
			if cands[i].Source != "" {
				title = fmt.Sprintf("%s (%s)", cands[i].Title, cands[i].Source)
			}
			for n := 2; seen[title]; n++ {
				title = fmt.Sprintf("%s (%d)", cands[i].Title, n)
			}
			cands[i].Title = title
		}
		seen[title] = true
	}
	return cands
}
