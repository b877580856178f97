package domain

import (
	"fmt"
	"time"
)

// DefaultBrand prefixes newsletter titles when none is configured.
const DefaultBrand = "[화안HR]"

// Newsletter is the assembled document handed to a Renderer.
type Newsletter struct {
	Title        string
	Date         string
	NewsTopic    string
	ConsultTopic string

	Article     Candidate
	ArticleText string

	// ArticleSection is the written summary of the article. Nil keeps the
	// article text as is.
	ArticleSection *ArticleSection

	Consult Candidate

	// ConsultSection is the rewritten consultation case. Nil keeps the
	// indexed question and answer.
	ConsultSection *ConsultSection

	Policy []Candidate
}

// ArticleSection is the news section written from an article's full text.
type ArticleSection struct {
	Summary     string
	Implication string
}

// ConsultSection is a consultation case rewritten as a general Q&A.
type ConsultSection struct {
	Question string
	Answer   string
}

// RenderedDocument is a renderer's output.
type RenderedDocument struct {
	// Format is the output format (e.g. "html", "markdown").
	Format  string
	Title   string
	Content []byte

	// Path is where the document was written, if it was written to disk.
	Path string
}

// WeekOfMonth returns the calendar week of t within its month, counting
// weeks that start on Monday. The first partial week is week 1.
func WeekOfMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	// Monday = 0
	offset := (int(first.Weekday()) + 6) % 7
	return (t.Day() + offset + 6) / 7
}

// NewsletterTitle returns "<brand> <year>년 <month>월 <week>주차 뉴스레터".
func NewsletterTitle(brand string, t time.Time) string {
	if brand == "" {
		brand = DefaultBrand
	}
	return fmt.Sprintf("%s %d년 %d월 %d주차 뉴스레터", brand, t.Year(), int(t.Month()), WeekOfMonth(t))
}
