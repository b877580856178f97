package moel

import (
	"fmt"
	"regexp"

	"golang.org/x/net/html"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/web"
)

var detailIDPattern = regexp.MustCompile(`fn_detail\((\d+)\)`)

type iqrsBoard struct {
	baseURL string
}

// NewIQRS creates a connector for the 질의회시 archive.
func NewIQRS(source domain.Source) (driven.Connector, error) {
	cfg, err := ParseConfig(source, DefaultIQRSBaseURL)
	if err != nil {
		return nil, err
	}
	return newConnector(domain.ConnectorTypeIQRS, source.ID, iqrsBoard{baseURL: cfg.BaseURL}), nil
}

func (b iqrsBoard) listURL(page int) string {
	return fmt.Sprintf("%s/cmmt/iqrs_list.do?pageIndex=%d", b.baseURL, page)
}

func (b iqrsBoard) detailURL(id string) string {
	return b.baseURL + "/cmmt/iqrs_detail.do?id=" + id
}

// parseList reads rows of qnum, title (with fn_detail onclick), ref_no, date.
// Header rows and short rows are skipped.
func (b iqrsBoard) parseList(doc *html.Node) []domain.ListRecord {
	var records []domain.ListRecord
	for _, tr := range tableRows(doc) {
		if web.Find(tr, web.Tag("th")) != nil {
			continue
		}
		tds := web.FindAll(tr, web.Tag("td"))
		if len(tds) < 4 {
			continue
		}
		rec := domain.ListRecord{
			Key:   web.Text(tds[0]),
			Title: web.Text(tds[1]),
			RefNo: web.Text(tds[2]),
			Date:  web.Text(tds[3]),
			State: domain.RecordStateComplete,
		}
		if rec.Key == "" {
			continue
		}
		if a := web.Find(tds[1], web.Tag("a")); a != nil {
			if m := detailIDPattern.FindStringSubmatch(web.Attr(a, "onclick")); m != nil {
				rec.Link = b.detailURL(m[1])
			}
		}
		records = append(records, rec)
	}
	return records
}

// parseDetail joins the spans of the question box and the paragraphs of the
// answer box.
func (b iqrsBoard) parseDetail(doc *html.Node) domain.DetailFields {
	var d domain.DetailFields
	if q := web.Find(doc, web.TagClass("dd", "qBox")); q != nil {
		d.Question = web.JoinText(web.FindAll(q, web.Tag("span")), " ")
	}
	if a := web.Find(doc, web.TagClass("dd", "aBox")); a != nil {
		d.Answer = web.JoinText(web.FindAll(a, web.Tag("p")), " ")
	}
	return d
}
