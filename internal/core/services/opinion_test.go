package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

func opinionLLM() *mockLLM {
	return &mockLLM{respond: func(msgs []driven.ChatMessage) (string, error) {
		switch directiveOf(msgs) {
		case directiveGround:
			return `{"query_summary": "수습 해고 가능 여부 문의", "related_laws": "근로기준법 제26조", "related_cases": "대법원 2006다1234"}`, nil
		case directiveRelated:
			return "질의: 수습 해고\n응답: 가능함", nil
		default:
			return "해고예고가 필요하다고 사료됩니다.", nil
		}
	}}
}

func newOpinionFixture(hits map[string][]domain.SearchHit, llm *mockLLM) (*OpinionService, *mockVectorStore, *mockOpinionRenderer) {
	vectors := &mockVectorStore{hits: hits}
	renderer := &mockOpinionRenderer{}
	svc := NewOpinionService(NewRetriever(&mockEmbedder{}, vectors, 0), llm, renderer, 0)
	svc.now = func() time.Time { return fixedNow }
	return svc, vectors, renderer
}

func TestOpinionService_Write(t *testing.T) {
	llm := opinionLLM()
	svc, vectors, renderer := newOpinionFixture(map[string][]domain.SearchHit{
		"iqrs":        {{Collection: "iqrs", ID: 0, Document: "Title: 수습 해고\nQ: q\nA: a", Distance: 0.2}},
		"fastcounsel": {{Collection: "fastcounsel", ID: 3, Document: "Title: 시용 기간\nQ: q\nA: a", Distance: 0.1}},
	}, llm)

	op, doc, err := svc.Write(context.Background(), "  수습기간 중 해고할 수 있나요?  ")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "/tmp/opinion.md", doc.Path)

	assert.Equal(t, "수습기간 중 해고할 수 있나요?", op.Query)
	assert.Equal(t, "2024.05.15", op.Date)
	assert.Equal(t, "수습 해고 가능 여부 문의", op.QuerySummary)
	assert.Equal(t, "근로기준법 제26조", op.RelatedLaws)
	assert.Equal(t, "대법원 2006다1234", op.RelatedCases)
	assert.Equal(t, "질의: 수습 해고\n응답: 가능함", op.RelatedQueries)
	assert.Equal(t, "해고예고가 필요하다고 사료됩니다.", op.Answer)

	// Every collection is searched and the closest hit comes first.
	assert.ElementsMatch(t, []string{"iqrs", "fastcounsel"}, vectors.queried)
	require.Len(t, op.References, 2)
	assert.Equal(t, "시용 기간", op.References[0].Title)

	require.Equal(t, 3, llm.calls())
	assert.True(t, llm.opts[0].JSON)
	assert.False(t, llm.opts[2].JSON)
	assert.Contains(t, llm.chats[1][3].Content, "[1] (fastcounsel) Title: 시용 기간")
	answerInputs := llm.chats[2]
	assert.Equal(t, "법령근거:\n근로기준법 제26조", answerInputs[3].Content)
	assert.Equal(t, "관련질의:\n질의: 수습 해고\n응답: 가능함", answerInputs[5].Content)

	require.Len(t, renderer.rendered, 1)
	assert.Equal(t, *op, renderer.rendered[0])
}

func TestOpinionService_WithoutCollections(t *testing.T) {
	llm := opinionLLM()
	svc, _, renderer := newOpinionFixture(map[string][]domain.SearchHit{}, llm)

	op, _, err := svc.Write(context.Background(), "연차휴가 사용 촉진")
	require.NoError(t, err)
	assert.Empty(t, op.References)
	assert.Equal(t, msgNoRelatedQueries, op.RelatedQueries)
	assert.Equal(t, 2, llm.calls())
	assert.Len(t, renderer.rendered, 1)
}

func TestOpinionService_Errors(t *testing.T) {
	svc, _, _ := newOpinionFixture(nil, opinionLLM())
	_, _, err := svc.Write(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	boom := errors.New("boom")
	svc, _, _ = newOpinionFixture(nil, &mockLLM{respond: func([]driven.ChatMessage) (string, error) {
		return "", boom
	}})
	_, _, err = svc.Write(context.Background(), "질의")
	assert.ErrorIs(t, err, boom)

	svc, vectors, _ := newOpinionFixture(map[string][]domain.SearchHit{"iqrs": {{Collection: "iqrs"}}}, opinionLLM())
	vectors.queryErr = boom
	_, _, err = svc.Write(context.Background(), "질의")
	assert.ErrorIs(t, err, boom)

	svc, _, renderer := newOpinionFixture(nil, opinionLLM())
	renderer.err = boom
	op, doc, err := svc.Write(context.Background(), "질의")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, doc)
	require.NotNil(t, op)
	assert.NotEmpty(t, op.Answer)
}
