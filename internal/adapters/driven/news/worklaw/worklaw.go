// Package worklaw searches 월간노동법률 (www.worklaw.co.kr).
//
// The search page builds its result list with JavaScript, so pages are
// loaded in headless Chrome through go-rod before parsing.
package worklaw

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/logger"
	"github.com/custodia-labs/lexbrief/internal/web"
)

// Defaults.
const (
	DefaultBaseURL  = "https://www.worklaw.co.kr"
	DefaultMaxPages = 10
	SourceName      = "월간노동법률"
	KeyPrefix       = "W"

	listPath = "/main2022/list/list.asp"
	viewPath = "/main2022/view/view.asp"

	// resultSelector marks a rendered search result.
	resultSelector = ".list_menu_order"
)

// PageSource returns the rendered HTML of a URL once waitSelector is
// present (or the page has settled without it).
type PageSource interface {
	HTML(ctx context.Context, url, waitSelector string) (string, error)
	Close() error
}

// Config configures the searcher.
type Config struct {
	BaseURL  string
	Limit    int
	MaxPages int
}

// Searcher implements driven.NewsSearcher for worklaw.
type Searcher struct {
	pages PageSource
	cfg   Config
}

// Ensure Searcher implements the interface.
var _ driven.NewsSearcher = (*Searcher)(nil)

// New creates a worklaw searcher that renders pages with src.
func New(cfg Config, src PageSource) *Searcher {
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
	return &Searcher{pages: src, cfg: cfg}
}

// Name returns "worklaw".
func (s *Searcher) Name() string { return "worklaw" }

// Close shuts down the page source.
func (s *Searcher) Close() error { return s.pages.Close() }

// Search walks result pages until Limit articles are found, a page comes
// back empty, or MaxPages is reached.
func (s *Searcher) Search(ctx context.Context, topic string) ([]domain.Candidate, error) {
	var out []domain.Candidate
	for page := 1; page <= s.cfg.MaxPages && len(out) < s.cfg.Limit; page++ {
		src, err := s.pages.HTML(ctx, s.searchURL(topic, page), resultSelector)
		if err != nil {
			if len(out) > 0 {
				logger.Warn("worklaw: page %d failed, keeping %d results: %v", page, len(out), err)
				break
			}
			return nil, fmt.Errorf("worklaw search page %d: %w", page, err)
		}
		doc, err := web.ParseString(src)
		if err != nil {
			return nil, fmt.Errorf("parse worklaw page %d: %w", page, err)
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

// searchURL builds the list URL. The site expects the legacy %uXXXX
// escape for non-ASCII search text.
func (s *Searcher) searchURL(topic string, page int) string {
	q := escapeUnicode(topic)
	return fmt.Sprintf(
		"%s%s?in_cate=122&in_cate2=0&search_Text=%s&keyword=%s&research_keyword=%s&resrch_depth=0"+
			"&keyword_pfet=&keyword_cont=&keyword_excd=&fd_opt=fd_all^nv_title^nv_contents^nv_writer^tm_code^"+
			"&dt_opt=1&dt_st=&dt_ed=&odr_type=2&andor=1&gopage=%d&detail_search_chk=1&svc_ver=",
		s.cfg.BaseURL, listPath, q, q, q, page)
}

func escapeUnicode(s string) string {
	var sb strings.Builder
	for _, r := range s {
		fmt.Fprintf(&sb, "%%u%04X", r)
	}
	return sb.String()
}

func (s *Searcher) parse(doc *html.Node) []domain.Candidate {
	var out []domain.Candidate
	for _, div := range web.FindAll(doc, web.TagClass("div", "list_menu_order")) {
		text := web.Find(div, web.TagClass("div", "la_text"))
		if text == nil {
			continue
		}
		ps := web.FindAll(text, web.Tag("p"))
		if len(ps) == 0 {
			continue
		}
		c := domain.Candidate{
			Title:  web.Text(ps[0]),
			Source: SourceName,
			Link:   s.linkFromOnclick(web.Attr(div, "onclick")),
		}
		if len(ps) > 1 {
			c.Content = web.Text(ps[1])
		}
		if ul := web.Find(text, web.TagClass("ul", "ndp")); ul != nil {
			if lis := web.FindAll(ul, web.Tag("li")); len(lis) > 1 {
				c.Date = strings.ReplaceAll(web.Text(lis[1]), "-", ".")
			}
		}
		if c.Title == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// linkFromOnclick extracts the view query that follows the view.asp path
// argument of the result's onclick handler.
func (s *Searcher) linkFromOnclick(onclick string) string {
	_, rest, ok := strings.Cut(onclick, "'"+viewPath+"','','")
	if !ok {
		return ""
	}
	query, _, _ := strings.Cut(rest, "'")
	query = strings.ReplaceAll(query, "&amp;", "&")
	return s.cfg.BaseURL + viewPath + query
}
