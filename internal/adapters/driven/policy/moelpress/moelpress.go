// Package moelpress lists press releases (보도자료) published by the
// Ministry of Employment and Labor.
package moelpress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/logger"
	"github.com/custodia-labs/lexbrief/internal/web"
)

// Defaults.
const (
	DefaultBaseURL  = "https://www.moel.go.kr"
	DefaultMaxPages = 3
	DefaultDelay    = 200 * time.Millisecond
	SourceName      = "고용노동부"
	KeyPrefix       = "P"

	reportPath = "/news/enews/report/"
)

// Config configures the searcher.
type Config struct {
	BaseURL string
	Delay   time.Duration
	Timeout time.Duration
}

// Searcher implements driven.PolicySearcher.
type Searcher struct {
	fetcher *web.Fetcher
	limiter *rate.Limiter
	baseURL string
}

// Ensure Searcher implements the interface.
var _ driven.PolicySearcher = (*Searcher)(nil)

// New creates a press-release searcher.
func New(cfg Config) *Searcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	return &Searcher{
		fetcher: web.NewFetcher(cfg.Timeout),
		limiter: rate.NewLimiter(rate.Every(cfg.Delay), 1),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Search returns the press releases on the first maxPages list pages,
// newest first. maxPages <= 0 uses DefaultMaxPages.
func (s *Searcher) Search(ctx context.Context, maxPages int) ([]domain.Candidate, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	var out []domain.Candidate
	for page := 1; page <= maxPages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		doc, err := s.fetcher.Get(ctx, fmt.Sprintf("%s%senewsList.do?pageIndex=%d", s.baseURL, reportPath, page))
		if err != nil {
			return nil, fmt.Errorf("press release page %d: %w", page, err)
		}
		found := s.parse(doc)
		logger.Debug("moelpress: page %d, %d items", page, len(found))
		if len(found) == 0 {
			break
		}
		for _, c := range found {
			c.Key = domain.CandidateKey(KeyPrefix, len(out)+1)
			out = append(out, c)
		}
	}
	return out, nil
}

// parse takes every linked table cell as one release.
func (s *Searcher) parse(doc *html.Node) []domain.Candidate {
	var out []domain.Candidate
	for _, td := range web.FindAll(doc, web.Tag("td")) {
		a := web.Find(td, web.Tag("a"))
		if a == nil {
			continue
		}
		title := web.Text(a)
		if title == "" {
			continue
		}
		out = append(out, domain.Candidate{
			Title:  title,
			Link:   s.resolve(web.Attr(a, "href")),
			Source: SourceName,
		})
	}
	return out
}

func (s *Searcher) resolve(href string) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return s.baseURL + href
	default:
		return s.baseURL + reportPath + href
	}
}
