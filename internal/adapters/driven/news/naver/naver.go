// Package naver searches news through the Naver search Open API.
package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

// Defaults.
const (
	DefaultBaseURL = "https://openapi.naver.com"
	DefaultDisplay = 20
	DefaultTimeout = 15 * time.Second
	KeyPrefix      = "N"
	SourceName     = "네이버뉴스"
)

// Config configures the searcher.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Display      int
	Timeout      time.Duration
}

// Searcher implements driven.NewsSearcher for Naver news.
type Searcher struct {
	client *http.Client
	cfg    Config
}

// Ensure Searcher implements the interface.
var _ driven.NewsSearcher = (*Searcher)(nil)

type searchResponse struct {
	Items []struct {
		Title        string `json:"title"`
		OriginalLink string `json:"originallink"`
		Link         string `json:"link"`
		Description  string `json:"description"`
		PubDate      string `json:"pubDate"`
	} `json:"items"`
	ErrorMessage string `json:"errorMessage"`
	ErrorCode    string `json:"errorCode"`
}

// New creates a Naver searcher. Client credentials are required.
func New(cfg Config) (*Searcher, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: naver client id and secret are required", domain.ErrInvalidInput)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Display <= 0 {
		cfg.Display = DefaultDisplay
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Searcher{client: &http.Client{Timeout: cfg.Timeout}, cfg: cfg}, nil
}

// Name returns "naver".
func (s *Searcher) Name() string { return "naver" }

// Search returns the newest articles for topic.
func (s *Searcher) Search(ctx context.Context, topic string) ([]domain.Candidate, error) {
	q := url.Values{}
	q.Set("query", topic)
	q.Set("display", strconv.Itoa(s.cfg.Display))
	q.Set("sort", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"/v1/search/news.json?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", s.cfg.ClientID)
	req.Header.Set("X-Naver-Client-Secret", s.cfg.ClientSecret)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("naver search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver search: status %d: %s %s", resp.StatusCode, parsed.ErrorCode, parsed.ErrorMessage)
	}

	out := make([]domain.Candidate, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		out = append(out, domain.Candidate{
			Key:     domain.CandidateKey(KeyPrefix, i+1),
			Title:   clean(item.Title),
			Link:    item.Link,
			Content: clean(item.Description),
			Date:    formatDate(item.PubDate),
			Source:  SourceName,
		})
	}
	return out, nil
}

// clean removes the <b> highlight markup and decodes entities.
func clean(s string) string {
	s = strings.NewReplacer("<b>", "", "</b>", "").Replace(s)
	return strings.TrimSpace(html.UnescapeString(s))
}

func formatDate(pubDate string) string {
	t, err := time.Parse(time.RFC1123Z, pubDate)
	if err != nil {
		return pubDate
	}
	return t.Format("2006.01.02")
}
