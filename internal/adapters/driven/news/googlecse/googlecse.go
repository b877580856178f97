// Package googlecse searches news through Google Programmable Search
// (Custom Search JSON API), optionally restricted to one site.
package googlecse

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

// Defaults.
const (
	DefaultMaxPages = 3
	KeyPrefix       = "G"
	SourceName      = "Google"

	// pageSize is fixed by the API.
	pageSize = 10
)

// Config configures the searcher.
type Config struct {
	APIKey string
	CX     string

	// SiteSearch restricts results to one host (e.g. www.worklaw.co.kr).
	SiteSearch string

	// SourceName labels candidates; defaults to SiteSearch or "Google".
	SourceName string

	Limit    int
	MaxPages int

	// Endpoint overrides the API root, for tests.
	Endpoint string
}

// Searcher implements driven.NewsSearcher over the Custom Search API.
type Searcher struct {
	svc *customsearch.Service
	cfg Config
}

// Ensure Searcher implements the interface.
var _ driven.NewsSearcher = (*Searcher)(nil)

// New creates a Custom Search searcher.
func New(ctx context.Context, cfg Config) (*Searcher, error) {
	if cfg.APIKey == "" || cfg.CX == "" {
		return nil, fmt.Errorf("%w: google cse api key and cx are required", domain.ErrInvalidInput)
	}
	if cfg.Limit <= 0 {
		cfg.Limit = domain.DefaultNewsPerSource
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.SourceName == "" {
		cfg.SourceName = SourceName
		if cfg.SiteSearch != "" {
			cfg.SourceName = cfg.SiteSearch
		}
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create customsearch service: %w", err)
	}
	return &Searcher{svc: svc, cfg: cfg}, nil
}

// Name returns "google".
func (s *Searcher) Name() string { return "google" }

// Search returns date-sorted results for topic.
func (s *Searcher) Search(ctx context.Context, topic string) ([]domain.Candidate, error) {
	var out []domain.Candidate
	for page := 0; page < s.cfg.MaxPages && len(out) < s.cfg.Limit; page++ {
		call := s.svc.Cse.List().
			Cx(s.cfg.CX).
			Q(topic).
			Start(int64(page*pageSize + 1)).
			Sort("date").
			Context(ctx)
		if s.cfg.SiteSearch != "" {
			call = call.SiteSearch(s.cfg.SiteSearch).SiteSearchFilter("i")
		}
		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("customsearch page %d: %w", page+1, err)
		}
		if len(res.Items) == 0 {
			break
		}
		for _, item := range res.Items {
			if len(out) == s.cfg.Limit {
				break
			}
			out = append(out, domain.Candidate{
				Key:     domain.CandidateKey(KeyPrefix, len(out)+1),
				Title:   item.Title,
				Link:    item.Link,
				Content: item.Snippet,
				Source:  s.cfg.SourceName,
			})
		}
	}
	return out, nil
}
