package moel

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/net/html"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/logger"
	"github.com/custodia-labs/lexbrief/internal/web"
)

// Request timeouts.
const (
	ListTimeout   = 30 * time.Second
	DetailTimeout = 20 * time.Second
)

// board knows the URL scheme and markup of one MOEL board.
type board interface {
	listURL(page int) string
	parseList(doc *html.Node) []domain.ListRecord
	parseDetail(doc *html.Node) domain.DetailFields
}

// Connector reads one MOEL board.
type Connector struct {
	connectorType string
	sourceID      string
	board         board
	list          *web.Fetcher
	detail        *web.Fetcher
}

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

func newConnector(connectorType, sourceID string, b board) *Connector {
	return &Connector{
		connectorType: connectorType,
		sourceID:      sourceID,
		board:         b,
		list:          web.NewFetcher(ListTimeout),
		detail:        web.NewFetcher(DetailTimeout),
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string { return c.connectorType }

// SourceID returns the source this connector reads.
func (c *Connector) SourceID() string { return c.sourceID }

// FetchList returns the records on a 1-based list page.
func (c *Connector) FetchList(ctx context.Context, page int) ([]domain.ListRecord, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page %d", domain.ErrInvalidInput, page)
	}
	u := c.board.listURL(page)
	logger.Debug("moel: fetching list page %d: %s", page, u)

	doc, err := c.list.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch list page %d: %w", page, err)
	}
	return c.board.parseList(doc), nil
}

// FetchDetail returns the question and answer behind a record link.
func (c *Connector) FetchDetail(ctx context.Context, link string) (domain.DetailFields, error) {
	if link == "" {
		return domain.DetailFields{}, fmt.Errorf("%w: empty detail link", domain.ErrInvalidInput)
	}
	doc, err := c.detail.Get(ctx, link)
	if err != nil {
		return domain.DetailFields{}, fmt.Errorf("fetch detail: %w", err)
	}
	return c.board.parseDetail(doc), nil
}

// Close releases idle connections.
func (c *Connector) Close() error {
	c.list.Close()
	c.detail.Close()
	return nil
}

// tableRows returns the <tr> elements under the first table body.
func tableRows(doc *html.Node) []*html.Node {
	tbody := web.Path(doc, web.Tag("table"), web.Tag("tbody"))
	if tbody == nil {
		return nil
	}
	return web.FindAll(tbody, web.Tag("tr"))
}
