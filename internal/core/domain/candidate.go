package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Candidate is an item offered to the user for selection.
type Candidate struct {
	// Key identifies the candidate within its source (e.g. "L3").
	Key        string
	Title      string
	Date       string
	Link       string
	Content    string
	Source     string
	Collection string
	Distance   float64
}

// CandidateKey returns a key such as "L0003" for the n-th (1-based)
// candidate of a source.
func CandidateKey(prefix string, n int) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}

// documentTitlePrefix is the first line of every indexed record document.
const documentTitlePrefix = "Title: "

// CandidateFromHit converts a retrieval hit into a selectable candidate.
func CandidateFromHit(hit SearchHit) Candidate {
	title := hit.Title
	if title == "" {
		title = TitleFromDocument(hit.Document)
	}
	return Candidate{
		Key:        hit.Collection + ":" + strconv.FormatInt(hit.ID, 10),
		Title:      title,
		Content:    hit.Document,
		Source:     hit.Collection,
		Collection: hit.Collection,
		Distance:   hit.Distance,
	}
}

// TitleFromDocument extracts the title from the first line of a
// document that follows the "Title: <title>" convention.
func TitleFromDocument(doc string) string {
	line, _, _ := strings.Cut(doc, "\n")
	if !strings.HasPrefix(line, documentTitlePrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(line, documentTitlePrefix))
}

// DocumentHasTitle reports whether doc starts with the title line for title.
func DocumentHasTitle(doc, title string) bool {
	return strings.HasPrefix(doc, documentTitlePrefix+title)
}
