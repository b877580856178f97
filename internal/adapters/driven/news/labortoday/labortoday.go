// Package labortoday searches the labor-law section of 매일노동뉴스
// (www.labortoday.co.kr).
package labortoday

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/logger"
	"github.com/custodia-labs/lexbrief/internal/web"
)

// Defaults.
const (
	DefaultBaseURL  = "https://www.labortoday.co.kr"
	DefaultMaxPages = 10
	SourceName      = "매일노동법률"
	KeyPrefix       = "L"

	// sectionCode restricts results to the labor-law section.
	sectionCode = "S1N27"
)

// Config configures the searcher.
type Config struct {
	BaseURL  string
	Limit    int
	MaxPages int
	Timeout  time.Duration
}

// Searcher implements driven.NewsSearcher for labortoday.
type Searcher struct {
	fetcher *web.Fetcher
	cfg     Config
}

// Ensure Searcher implements the interface.
var _ driven.NewsSearcher = (*Searcher)(nil)

// New creates a labortoday searcher.
func New(cfg Config) *Searcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Limit <= 0 {
		cfg.Limit = domain.DefaultNewsPerSource
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	return &Searcher{fetcher: web.NewFetcher(cfg.Timeout), cfg: cfg}
}

// Name returns "labortoday".
func (s *Searcher) Name() string { return "labortoday" }

// Search walks result pages until Limit articles are found, a page comes
// back empty, or MaxPages is reached.
func (s *Searcher) Search(ctx context.Context, topic string) ([]domain.Candidate, error) {
	var out []domain.Candidate
	for page := 1; page <= s.cfg.MaxPages && len(out) < s.cfg.Limit; page++ {
		doc, err := s.fetcher.Get(ctx, s.searchURL(topic, page))
		if err != nil {
			if len(out) > 0 {
				logger.Warn("labortoday: page %d failed, keeping %d results: %v", page, len(out), err)
				break
			}
			return nil, fmt.Errorf("labortoday search page %d: %w", page, err)
		}
		found := s.parse(doc)
		if len(found) == 0 {
			break
		}
		for _, c := range found {
			if len(out) == s.cfg.Limit {
				break
			}
			c.Key = domain.CandidateKey(KeyPrefix, len(out)+1)
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Searcher) searchURL(topic string, page int) string {
	q := url.Values{}
	q.Set("sc_area", "A")
	q.Set("view_type", "sm")
	q.Set("sc_section_code", sectionCode)
	q.Set("sc_word", topic)
	q.Set("page", fmt.Sprint(page))
	return s.cfg.BaseURL + "/news/articleList.html?" + q.Encode()
}

// parse reads li > div.view-cont blocks; blocks without a title are ads or
// pagination and are skipped.
func (s *Searcher) parse(doc *html.Node) []domain.Candidate {
	var out []domain.Candidate
	for _, li := range web.FindAll(doc, web.Tag("li")) {
		box := web.Find(li, web.TagClass("div", "view-cont"))
		if box == nil {
			continue
		}
		titleTag := web.Path(box, web.TagClass("h4", "titles"), web.Tag("a"))
		title := web.Text(titleTag)
		if title == "" {
			continue
		}
		c := domain.Candidate{
			Title:   title,
			Content: web.Text(web.Path(box, web.TagClass("p", "lead"), web.Tag("a"))),
			Date:    web.Truncate(web.Text(web.Path(box, web.TagClass("span", "byline"), web.Tag("em"))), 10),
			Source:  SourceName,
		}
		if href := web.Attr(titleTag, "href"); href != "" {
			c.Link = s.resolve(href)
		}
		out = append(out, c)
	}
	return out
}

func (s *Searcher) resolve(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return s.cfg.BaseURL + href
}
