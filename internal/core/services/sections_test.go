package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

func TestSectionWriter_ArticleSection(t *testing.T) {
	llm := &mockLLM{respond: func([]driven.ChatMessage) (string, error) {
		return "```json\n{\"summary\": \"기사 요약입니다.\", \"implication\": \"규정 정비가 필요합니다.\"}\n```", nil
	}}
	w := NewSectionWriter(llm)

	sec, err := w.ArticleSection(context.Background(), domain.Candidate{Title: "겸직금지"}, "기사 전문")
	require.NoError(t, err)
	assert.Equal(t, "기사 요약입니다.", sec.Summary)
	assert.Equal(t, "※ 규정 정비가 필요합니다.", sec.Implication)

	require.Equal(t, 1, llm.calls())
	assert.True(t, llm.opts[0].JSON)
	assert.Equal(t, directiveArticle, directiveOf(llm.chats[0]))
	assert.Equal(t, "뉴스 기사 전문:\n기사 전문", llm.chats[0][2].Content)
}

func TestSectionWriter_ArticleSectionKeepsExistingMark(t *testing.T) {
	llm := &mockLLM{respond: func([]driven.ChatMessage) (string, error) {
		return `{"summary": "요약", "implication": "※ 시사점"}`, nil
	}}
	sec, err := NewSectionWriter(llm).ArticleSection(context.Background(), domain.Candidate{Content: "snippet"}, "")
	require.NoError(t, err)
	assert.Equal(t, "※ 시사점", sec.Implication)
	assert.Contains(t, llm.chats[0][2].Content, "snippet")
}

func TestSectionWriter_ConsultSection(t *testing.T) {
	llm := &mockLLM{respond: func([]driven.ChatMessage) (string, error) {
		return `{"question": "Q. 수습기간 중에도 해고예고가 필요한가요?", "answer": "필요합니다. (근로기준정책과-1, 2024.01.02)"}`, nil
	}}
	sec, err := NewSectionWriter(llm).ConsultSection(context.Background(), domain.Candidate{
		Title:   "수습기간 중 해고",
		Content: "Title: 수습기간 중 해고\nQ: q\nA: a",
	})
	require.NoError(t, err)
	assert.Equal(t, "수습기간 중에도 해고예고가 필요한가요?", sec.Question)
	assert.Equal(t, "필요합니다. (근로기준정책과-1, 2024.01.02)", sec.Answer)
	assert.Equal(t, directiveConsult, directiveOf(llm.chats[0]))
}

func TestSectionWriter_Errors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		reply   string
		err     error
		wantErr error
	}{
		{name: "chat error", err: boom, wantErr: boom},
		{name: "not json", reply: "요약할 수 없습니다"},
		{name: "empty fields", reply: `{"summary": "", "question": ""}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewSectionWriter(&mockLLM{respond: func([]driven.ChatMessage) (string, error) {
				return tc.reply, tc.err
			}})
			_, err := w.ArticleSection(context.Background(), domain.Candidate{}, "text")
			require.Error(t, err)
			_, cerr := w.ConsultSection(context.Background(), domain.Candidate{Content: "text"})
			require.Error(t, cerr)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.ErrorIs(t, cerr, tc.wantErr)
			}
		})
	}

	w := NewSectionWriter(&mockLLM{})
	_, err := w.ArticleSection(context.Background(), domain.Candidate{}, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = w.ConsultSection(context.Background(), domain.Candidate{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestJSONBody(t *testing.T) {
	assert.Equal(t, `{"a":1}`, jsonBody("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":{"b":2}}`, jsonBody(`결과: {"a":{"b":2}} 입니다`))
	assert.Equal(t, "plain", jsonBody(" plain "))
}

func TestWorkflow_GenerateWritesSections(t *testing.T) {
	f := newWorkflowFixture()
	llm := &mockLLM{respond: func(msgs []driven.ChatMessage) (string, error) {
		if directiveOf(msgs) == directiveArticle {
			return `{"summary": "요약", "implication": "시사점"}`, nil
		}
		return `{"question": "질문인가요?", "answer": "답변입니다."}`, nil
	}}
	f.wf.WithSectionWriter(NewSectionWriter(llm))

	ready := stateAt(domain.PhaseReadyToGenerate)
	ready.SelectedNews = &domain.Candidate{Title: "n"}
	ready.NewsText = "기사 전문"
	ready.SelectedConsult = &domain.Candidate{Title: "c", Content: "Title: c\nQ: q\nA: a"}

	_, res, err := f.wf.Step(context.Background(), ready, "생성")
	require.NoError(t, err)
	assert.Equal(t, domain.StepDocument, res.Type)

	require.Equal(t, 1, f.renderer.calls())
	nl := f.renderer.rendered[0]
	require.NotNil(t, nl.ArticleSection)
	assert.Equal(t, "※ 시사점", nl.ArticleSection.Implication)
	require.NotNil(t, nl.ConsultSection)
	assert.Equal(t, "질문인가요?", nl.ConsultSection.Question)
	assert.Equal(t, "기사 전문", nl.ArticleText)
}

func TestWorkflow_GenerateKeepsSourceTextOnWriterError(t *testing.T) {
	f := newWorkflowFixture()
	f.wf.WithSectionWriter(NewSectionWriter(&mockLLM{respond: func(msgs []driven.ChatMessage) (string, error) {
		if directiveOf(msgs) == directiveArticle {
			return "", errors.New("rate limited")
		}
		return `{"question": "질문인가요?", "answer": "답변입니다."}`, nil
	}}))

	ready := stateAt(domain.PhaseReadyToGenerate)
	ready.SelectedNews = &domain.Candidate{Title: "n"}
	ready.NewsText = "기사 전문"
	ready.SelectedConsult = &domain.Candidate{Title: "c", Content: "Title: c\nQ: q\nA: a"}

	_, _, err := f.wf.Step(context.Background(), ready, "생성")
	require.NoError(t, err)
	nl := f.renderer.rendered[0]
	assert.Nil(t, nl.ArticleSection)
	assert.NotNil(t, nl.ConsultSection)
}

func TestWorkflow_GenerateStopsOnCancel(t *testing.T) {
	f := newWorkflowFixture()
	ctx, cancel := context.WithCancel(context.Background())
	f.wf.WithSectionWriter(NewSectionWriter(&mockLLM{respond: func([]driven.ChatMessage) (string, error) {
		cancel()
		return "", context.Canceled
	}}))

	ready := stateAt(domain.PhaseReadyToGenerate)
	ready.SelectedNews = &domain.Candidate{Title: "n"}
	ready.NewsText = strings.Repeat("본문", 10)
	ready.SelectedConsult = &domain.Candidate{Title: "c", Content: "x"}

	next, _, err := f.wf.Step(ctx, ready, "생성")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.PhaseReadyToGenerate, next.Phase)
	assert.Zero(t, f.renderer.calls())
}
