package moel

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/web"
)

// answeredLabel marks a consultation that has been answered.
const answeredLabel = "답변완료"

type fastCounselBoard struct {
	baseURL string
}

// NewFastCounsel creates a connector for the 빠른상담 board.
func NewFastCounsel(source domain.Source) (driven.Connector, error) {
	cfg, err := ParseConfig(source, DefaultFastCounselBaseURL)
	if err != nil {
		return nil, err
	}
	return newConnector(domain.ConnectorTypeFastCounsel, source.ID, fastCounselBoard{baseURL: cfg.BaseURL}), nil
}

func (b fastCounselBoard) listURL(page int) string {
	return fmt.Sprintf("%s/minwon/fastcounsel/fastcounselList.do?pageIndex=%d", b.baseURL, page)
}

// parseList reads rows of qnum, title (with href), date and state.
func (b fastCounselBoard) parseList(doc *html.Node) []domain.ListRecord {
	var records []domain.ListRecord
	for _, tr := range tableRows(doc) {
		tds := web.FindAll(tr, web.Tag("td"))
		if len(tds) < 3 {
			continue
		}
		rec := domain.ListRecord{
			Key:   web.Text(tds[0]),
			Title: web.Text(tds[1]),
			Date:  web.Text(tds[2]),
			State: domain.RecordStatePending,
		}
		if rec.Key == "" {
			continue
		}
		if len(tds) > 3 && web.Text(tds[3]) == answeredLabel {
			rec.State = domain.RecordStateComplete
		}
		if a := web.Find(tds[1], web.Tag("a")); a != nil {
			rec.Link = b.resolve(web.Attr(a, "href"))
		}
		records = append(records, rec)
	}
	return records
}

func (b fastCounselBoard) resolve(href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return b.baseURL + href
	default:
		return b.baseURL + "/" + href
	}
}

// parseDetail takes the first dd of the first two definition lists as the
// question and the answer.
func (b fastCounselBoard) parseDetail(doc *html.Node) domain.DetailFields {
	var d domain.DetailFields
	dls := web.FindAll(doc, web.Tag("dl"))
	if len(dls) > 0 {
		d.Question = web.Text(web.Find(dls[0], web.Tag("dd")))
	}
	if len(dls) > 1 {
		d.Answer = web.Text(web.Find(dls[1], web.Tag("dd")))
	}
	return d
}
