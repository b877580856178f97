package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromDocument(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{"Title: 연차휴가 산정\nQ: ...", "연차휴가 산정"},
		{"Title:  padded \nA", "padded"},
		{"Q: no title", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleFromDocument(tt.doc), tt.doc)
	}
}

func TestDocumentHasTitle(t *testing.T) {
	doc := "Title: 휴업수당 지급\nQ: q"
	assert.True(t, DocumentHasTitle(doc, "휴업수당 지급"))
	assert.True(t, DocumentHasTitle(doc, "휴업수당"))
	assert.False(t, DocumentHasTitle(doc, "연차"))
}

func TestCandidateFromHit(t *testing.T) {
	c := CandidateFromHit(SearchHit{Collection: "iqrs", ID: 7, Document: "Title: 제목\nQ: q", Distance: 0.25})
	assert.Equal(t, "iqrs:7", c.Key)
	assert.Equal(t, "제목", c.Title)
	assert.Equal(t, "iqrs", c.Collection)
	assert.InDelta(t, 0.25, c.Distance, 1e-9)

	c = CandidateFromHit(SearchHit{Collection: "iqrs", Title: "structured", Document: "Title: other"})
	assert.Equal(t, "structured", c.Title)
}

func TestCandidateKey(t *testing.T) {
	assert.Equal(t, "N0012", CandidateKey("N", 12))
	assert.Equal(t, "P0001", CandidateKey("P", 1))
}
