package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

// Ensure OpinionService implements the interface.
var _ driving.OpinionWriter = (*OpinionService)(nil)

const (
	directiveGround = `주어진 인사/노무 질의를 요약하고 판단 근거가 되는 법령과 판례를 정리합니다.
- query_summary: 질의의 의미를 바꾸지 않은 "~임", "~인가" 형태의 짧은 요약. 여러 쟁점은 '-' 불릿으로 구분합니다.
- related_laws: 관련 법령의 정의와 조문을 인용하고 국가법령정보센터(www.law.go.kr) 링크와 간략한 해석을 붙입니다.
- related_cases: 관련 판례를 사건번호, 요지, 링크와 함께 정리합니다.
다음 JSON 형식으로만 출력합니다: {"query_summary": "...", "related_laws": "...", "related_cases": "..."}`

	directiveRelated = `관련 질의 검색 결과 중 사용자의 질의와 가장 유사한 사례를 최대 3건 골라 정리합니다.
- 검색 결과에 있는 내용만 사용하고 새로운 내용을 더하지 않습니다.
- 각 사례는 "질의:", "응답:", "link:" 줄로 구성하고 사례 사이에는 빈 줄을 둡니다.`

	directiveAnswer = `질의, 법령 근거, 관련 판례, 관련 질의를 바탕으로 검토 의견을 작성합니다.
- 질의 사항과 문제 상황의 정리, 근거 자료의 요약과 취지, 최종 판단의 순서로 작성합니다.
- 판단이 담긴 문장은 "~사료됩니다", "~판단됩니다"로 끝맺습니다.`

	msgNoRelatedQueries = "관련 질의 사례를 찾지 못했습니다."
)

// DefaultOpinionTopK is the number of archive records an opinion draws on.
const DefaultOpinionTopK = 5

// OpinionService writes legal opinions for free-form HR questions.
type OpinionService struct {
	retriever driving.Retriever
	llm       driven.LLMService
	renderer  driven.OpinionRenderer
	topK      int
	now       func() time.Time
}

// NewOpinionService creates an opinion service. A topK of zero or less
// uses DefaultOpinionTopK.
func NewOpinionService(retriever driving.Retriever, llm driven.LLMService, renderer driven.OpinionRenderer, topK int) *OpinionService {
	if topK <= 0 {
		topK = DefaultOpinionTopK
	}
	return &OpinionService{
		retriever: retriever,
		llm:       llm,
		renderer:  renderer,
		topK:      topK,
		now:       time.Now,
	}
}

// Write grounds the query in law and case references, searches every
// collection for related consultations, writes the review and renders it.
func (s *OpinionService) Write(ctx context.Context, query string) (*domain.LegalOpinion, *domain.RenderedDocument, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	logger.Section("Legal opinion")

	op := &domain.LegalOpinion{
		Query: query,
		Date:  s.now().Format("2006.01.02"),
	}

	var ground struct {
		QuerySummary string `json:"query_summary"`
		RelatedLaws  string `json:"related_laws"`
		RelatedCases string `json:"related_cases"`
	}
	if err := chatJSON(ctx, s.llm, s.messages(directiveGround, "질의사항 전문:\n"+query), &ground); err != nil {
		return nil, nil, fmt.Errorf("ground query: %w", err)
	}
	op.QuerySummary = strings.TrimSpace(ground.QuerySummary)
	op.RelatedLaws = strings.TrimSpace(ground.RelatedLaws)
	op.RelatedCases = strings.TrimSpace(ground.RelatedCases)

	hits, err := s.retriever.Search(ctx, nil, query, s.topK)
	switch {
	case errors.Is(err, domain.ErrNoSearchableCollection):
		logger.Warn("No indexed collections; writing the opinion without related consultations")
	case err != nil:
		return nil, nil, fmt.Errorf("search related consultations: %w", err)
	}
	for _, h := range hits {
		op.References = append(op.References, domain.CandidateFromHit(h))
	}

	op.RelatedQueries = msgNoRelatedQueries
	if len(hits) > 0 {
		related, err := s.llm.Chat(ctx, s.messages(directiveRelated,
			"질의사항 전문:\n"+query,
			"관련질의 검색 결과:\n"+formatHits(hits)), driven.ChatOptions{})
		if err != nil {
			return nil, nil, fmt.Errorf("summarise related consultations: %w", err)
		}
		op.RelatedQueries = strings.TrimSpace(related)
	}

	answer, err := s.llm.Chat(ctx, s.messages(directiveAnswer,
		"질의사항 전문:\n"+query,
		"법령근거:\n"+op.RelatedLaws,
		"관련판례:\n"+op.RelatedCases,
		"관련질의:\n"+op.RelatedQueries), driven.ChatOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("write review: %w", err)
	}
	op.Answer = strings.TrimSpace(answer)

	logger.Info("Rendering legal opinion (%d references)", len(op.References))
	doc, err := s.renderer.RenderOpinion(ctx, *op)
	if err != nil {
		return op, nil, fmt.Errorf("render opinion: %w", err)
	}
	return op, doc, nil
}

func (s *OpinionService) messages(directive string, inputs ...string) []driven.ChatMessage {
	msgs := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: directiveCommon},
		{Role: driven.RoleSystem, Content: directive},
	}
	for _, in := range inputs {
		msgs = append(msgs, driven.ChatMessage{Role: driven.RoleUser, Content: in})
	}
	return msgs
}

// formatHits lists retrieved documents for the related-consultation prompt.
func formatHits(hits []domain.SearchHit) string {
	var b strings.Builder
	for i, h := range hits {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] (%s) %s", i+1, h.Collection, h.Document)
	}
	return b.String()
}
