// Package rss filters RSS and Atom feeds for articles matching a topic.
package rss

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

// Defaults.
const (
	KeyPrefix      = "R"
	DefaultTimeout = 20 * time.Second
)

// Config configures the searcher.
type Config struct {
	Feeds   []string
	Limit   int
	Timeout time.Duration
}

// Searcher implements driven.NewsSearcher over a fixed list of feeds.
type Searcher struct {
	parser *gofeed.Parser
	cfg    Config
}

// Ensure Searcher implements the interface.
var _ driven.NewsSearcher = (*Searcher)(nil)

// New creates a feed searcher.
func New(cfg Config) *Searcher {
	if cfg.Limit <= 0 {
		cfg.Limit = domain.DefaultNewsPerSource
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Searcher{parser: gofeed.NewParser(), cfg: cfg}
}

// Name returns "rss".
func (s *Searcher) Name() string { return "rss" }

// Search returns feed items whose title or description contains topic
// (case-insensitive), in feed order. Feeds that fail are skipped unless
// all of them fail.
func (s *Searcher) Search(ctx context.Context, topic string) ([]domain.Candidate, error) {
	if len(s.cfg.Feeds) == 0 {
		return nil, fmt.Errorf("%w: no rss feeds configured", domain.ErrInvalidInput)
	}
	needle := strings.ToLower(strings.TrimSpace(topic))

	var out []domain.Candidate
	var lastErr error
	fetched := 0
	for _, feedURL := range s.cfg.Feeds {
		if len(out) >= s.cfg.Limit {
			break
		}
		feed, err := s.fetch(ctx, feedURL)
		if err != nil {
			lastErr = err
			logger.Warn("rss: %s: %v", feedURL, err)
			continue
		}
		fetched++
		for _, item := range feed.Items {
			if len(out) >= s.cfg.Limit {
				break
			}
			if !matches(item, needle) {
				continue
			}
			out = append(out, domain.Candidate{
				Key:     domain.CandidateKey(KeyPrefix, len(out)+1),
				Title:   strings.TrimSpace(item.Title),
				Link:    item.Link,
				Content: summary(item),
				Date:    published(item),
				Source:  feed.Title,
			})
		}
	}
	if fetched == 0 {
		return nil, fmt.Errorf("fetch feeds: %w", lastErr)
	}
	return out, nil
}

func (s *Searcher) fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return s.parser.ParseURLWithContext(feedURL, ctx)
}

func matches(item *gofeed.Item, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), needle) ||
		strings.Contains(strings.ToLower(item.Description), needle)
}

func summary(item *gofeed.Item) string {
	if item.Description != "" {
		return item.Description
	}
	return item.Content
}

func published(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.Format("2006.01.02")
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.Format("2006.01.02")
	default:
		return item.Published
	}
}
