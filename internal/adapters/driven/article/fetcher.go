// Package article fetches the full text of a news article.
//
// Pages are passed through go-readability first; when it finds no usable
// body (labortoday article pages sometimes trip it) the text of every
// paragraph on the page is used instead.
package article

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/logger"
	"github.com/custodia-labs/lexbrief/internal/web"
)

// Defaults.
const (
	DefaultTimeout = 30 * time.Second

	// minReadableLength is the shortest readability result accepted.
	minReadableLength = 200
)

// Fetcher implements driven.ArticleFetcher.
type Fetcher struct {
	web *web.Fetcher
}

// Ensure Fetcher implements the interface.
var _ driven.ArticleFetcher = (*Fetcher)(nil)

// New creates an article fetcher.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{web: web.NewFetcher(timeout)}
}

// FetchText downloads the candidate's link and returns its body text.
func (f *Fetcher) FetchText(ctx context.Context, candidate domain.Candidate) (string, error) {
	if candidate.Link == "" {
		return "", fmt.Errorf("%w: candidate %s has no link", domain.ErrInvalidInput, candidate.Key)
	}
	pageURL, err := url.Parse(candidate.Link)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	body, err := f.web.GetBytes(ctx, candidate.Link)
	if err != nil {
		return "", fmt.Errorf("fetch article: %w", err)
	}

	if art, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
		text := normalise(art.TextContent)
		if len([]rune(text)) >= minReadableLength {
			return text, nil
		}
	} else {
		logger.Debug("article: readability failed for %s: %v", candidate.Link, err)
	}

	doc, err := web.ParseString(string(body))
	if err != nil {
		return "", fmt.Errorf("parse article: %w", err)
	}
	text := web.JoinText(web.FindAll(doc, web.Tag("p")), "\n")
	if text == "" {
		return "", fmt.Errorf("article %s: no text found", candidate.Link)
	}
	return text, nil
}

// normalise trims each line and drops blank ones.
func normalise(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
