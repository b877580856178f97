package render

import (
	"strings"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// consultView is the consult candidate split back into its fields.
type consultView struct {
	Title    string
	Question string
	Answer   string
	Link     string
	RefNo    string
}

type newsletterView struct {
	domain.Newsletter
	ArticleParagraphs []string
	Implication       string
	Consult           consultView
}

func newView(n domain.Newsletter) newsletterView {
	text := n.ArticleText
	if text == "" {
		text = n.Article.Content
	}
	policy := make([]domain.Candidate, len(n.Policy))
	for i, p := range n.Policy {
		if p.Source == "" {
			p.Source = "고용노동부"
		}
		policy[i] = p
	}
	n.Policy = policy

	v := newsletterView{
		Newsletter:        n,
		ArticleParagraphs: paragraphs(text),
		Consult:           parseConsult(n.Consult),
	}
	if s := n.ArticleSection; s != nil {
		v.ArticleParagraphs = paragraphs(s.Summary)
		v.Implication = s.Implication
	}
	if s := n.ConsultSection; s != nil {
		v.Consult.Question = s.Question
		v.Consult.Answer = s.Answer
	}
	return v
}

func paragraphs(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// parseConsult reads the "Title:/Q:/A:/Link:/Ref_no:" lines of an indexed
// record document.
func parseConsult(c domain.Candidate) consultView {
	v := consultView{Title: c.Title, Link: c.Link}
	for _, line := range strings.Split(c.Content, "\n") {
		key, val, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		switch key {
		case "Title":
			if v.Title == "" {
				v.Title = val
			}
		case "Q":
			v.Question = val
		case "A":
			v.Answer = val
		case "Link":
			if v.Link == "" {
				v.Link = val
			}
		case "Ref_no":
			v.RefNo = val
		}
	}
	return v
}

// OpinionTitle heads every rendered legal opinion.
const OpinionTitle = "법률 검토 의견서"

type referenceView struct {
	Title      string
	Collection string
	Link       string
}

type opinionView struct {
	domain.LegalOpinion
	Title      string
	Disclaimer string
	References []referenceView
}

func newOpinionView(op domain.LegalOpinion) opinionView {
	refs := make([]referenceView, len(op.References))
	for i, c := range op.References {
		parsed := parseConsult(c)
		refs[i] = referenceView{Title: parsed.Title, Collection: c.Collection, Link: parsed.Link}
	}
	return opinionView{
		LegalOpinion: op,
		Title:        OpinionTitle,
		Disclaimer:   domain.OpinionDisclaimer,
		References:   refs,
	}
}
