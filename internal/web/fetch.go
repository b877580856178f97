package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// DefaultUserAgent is sent when a Fetcher has no explicit agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) lexbrief"

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 30 * time.Second

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

// Fetcher downloads and parses HTML documents.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a Fetcher whose requests time out after timeout.
// A zero timeout uses DefaultTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: DefaultUserAgent,
	}
}

// WithUserAgent returns a copy of f that sends ua.
func (f *Fetcher) WithUserAgent(ua string) *Fetcher {
	cp := *f
	cp.userAgent = ua
	return &cp
}

// Get fetches url and parses the body as HTML, transcoding legacy charsets
// (EUC-KR is still common on Korean sites) to UTF-8.
func (f *Fetcher) Get(ctx context.Context, url string) (*html.Node, error) {
	body, contentType, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	r, err := charset.NewReader(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("detect charset for %s: %w", url, err)
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// GetBytes fetches url and returns the raw body.
func (f *Fetcher) GetBytes(ctx context.Context, url string) ([]byte, error) {
	body, _, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (f *Fetcher) get(ctx context.Context, url string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// Close releases idle connections.
func (f *Fetcher) Close() {
	f.client.CloseIdleConnections()
}

// ParseString parses an HTML fragment or document held in memory.
func ParseString(s string) (*html.Node, error) {
	return html.Parse(strings.NewReader(s))
}
