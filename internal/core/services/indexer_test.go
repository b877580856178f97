package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

func TestFormatters(t *testing.T) {
	rec := domain.StoredRecord{
		Title:    "연차휴가 사용 촉진",
		Question: "질문",
		Answer:   "답변",
		Link:     "https://example.com/1",
		RefNo:    "근로기준정책과-123",
	}

	assert.Equal(t,
		"Title: 연차휴가 사용 촉진\nQ: 질문\nA: 답변\nLink: https://example.com/1",
		FormatterFor(domain.ConnectorTypeFastCounsel)(rec))
	assert.Equal(t,
		"Title: 연차휴가 사용 촉진\nQ: 질문\nA: 답변\nLink: https://example.com/1\nRef_no: 근로기준정책과-123",
		FormatterFor(domain.ConnectorTypeIQRS)(rec))
	assert.Equal(t,
		"Title: 연차휴가 사용 촉진\nContent: 답변\nLink: https://example.com/1",
		FormatterFor(domain.ConnectorTypePDF)(rec))
	assert.Equal(t, "연차휴가 사용 촉진", domain.TitleFromDocument(FormatRecord(rec)))
}

func TestIndexer_Index(t *testing.T) {
	embedder := &mockEmbedder{}
	vectors := memory.NewVectorStore()
	ix := NewIndexer(embedder, vectors)
	source := domain.Source{ID: "iqrs", Type: domain.ConnectorTypeIQRS}

	n, err := ix.Index(context.Background(), source, []domain.StoredRecord{
		{Key: "1", Title: "first"},
		{Key: "2", Title: "second"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, embedder.batches())

	hits, err := vectors.Query(context.Background(), "iqrs", []float32{0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	titles := []string{hits[0].Title, hits[1].Title}
	assert.ElementsMatch(t, []string{"first", "second"}, titles)
	assert.Contains(t, hits[0].Document, "Ref_no: ")
}

func TestIndexer_EmptyInputMakesNoCall(t *testing.T) {
	embedder := &mockEmbedder{}
	ix := NewIndexer(embedder, memory.NewVectorStore())

	n, err := ix.Index(context.Background(), domain.Source{ID: "x"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, embedder.batches())
}

func TestIndexer_Errors(t *testing.T) {
	recs := []domain.StoredRecord{{Key: "1", Title: "t"}}

	_, err := NewIndexer(nil, memory.NewVectorStore()).Index(context.Background(), domain.Source{ID: "x"}, recs)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	boom := errors.New("boom")
	_, err = NewIndexer(&mockEmbedder{err: boom}, memory.NewVectorStore()).Index(context.Background(), domain.Source{ID: "x"}, recs)
	assert.ErrorIs(t, err, boom)

	_, err = NewIndexer(&mockEmbedder{}, &mockVectorStore{}).Index(context.Background(), domain.Source{ID: "x"}, recs)
	assert.Error(t, err)
}
