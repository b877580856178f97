package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

// Directives sent to the chat model. Every reply is a single JSON object.
const (
	directiveCommon = `당신은 인사/노무 자료를 정리하는 편집자입니다.
- 항상 한국어로만 답변합니다.
- 주어진 자료에만 근거하여 작성합니다.
- '~입니다', '~습니다'로 끝나는 격식체를 사용합니다.
- 문단 사이에는 빈 줄을 둡니다.`

	directiveArticle = `주어진 뉴스 기사 전문을 요약하고 인사/노무 실무상의 시사점을 도출합니다.
- summary: 1000자 내외의 기사 요약
- implication: 500자 내외의 시사점
다음 JSON 형식으로만 출력합니다: {"summary": "...", "implication": "..."}`

	directiveConsult = `주어진 질의회시 원문을 일반적인 사례로 읽히는 질의응답으로 정리합니다.
- question: 한 문장의 의문문 ("~나요?"와 같은 친근한 어투 허용)
- answer: 1500자 내외로 다듬은 답변. 끝에 참조문서 번호와 회시 일자를 괄호로 표기합니다.
- '귀하', '귀 질의'와 같은 표현은 쓰지 않습니다.
다음 JSON 형식으로만 출력합니다: {"question": "...", "answer": "..."}`
)

// ImplicationMark prefixes every written implication.
const ImplicationMark = "※"

// SectionWriter writes the article and consultation sections of a
// newsletter with a chat model.
type SectionWriter struct {
	llm driven.LLMService
}

// NewSectionWriter creates a section writer over llm.
func NewSectionWriter(llm driven.LLMService) *SectionWriter {
	return &SectionWriter{llm: llm}
}

// ArticleSection summarises an article's full text.
func (s *SectionWriter) ArticleSection(ctx context.Context, article domain.Candidate, text string) (*domain.ArticleSection, error) {
	if strings.TrimSpace(text) == "" {
		text = article.Content
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: article %q has no text", domain.ErrInvalidInput, article.Title)
	}

	var out struct {
		Summary     string `json:"summary"`
		Implication string `json:"implication"`
	}
	if err := s.chatJSON(ctx, directiveArticle, "뉴스 기사 전문:\n"+text, &out); err != nil {
		return nil, fmt.Errorf("write article section: %w", err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return nil, errors.New("write article section: empty summary")
	}

	implication := strings.TrimSpace(out.Implication)
	if implication != "" && !strings.HasPrefix(implication, ImplicationMark) {
		implication = ImplicationMark + " " + implication
	}
	return &domain.ArticleSection{
		Summary:     strings.TrimSpace(out.Summary),
		Implication: implication,
	}, nil
}

// ConsultSection rewrites an indexed consultation case as a general Q&A.
func (s *SectionWriter) ConsultSection(ctx context.Context, consult domain.Candidate) (*domain.ConsultSection, error) {
	if strings.TrimSpace(consult.Content) == "" {
		return nil, fmt.Errorf("%w: consultation %q has no text", domain.ErrInvalidInput, consult.Title)
	}

	var out struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := s.chatJSON(ctx, directiveConsult, "질의회시 전문:\n"+consult.Content, &out); err != nil {
		return nil, fmt.Errorf("write consultation section: %w", err)
	}
	question := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out.Question), "Q."))
	if question == "" || strings.TrimSpace(out.Answer) == "" {
		return nil, errors.New("write consultation section: empty question or answer")
	}
	return &domain.ConsultSection{
		Question: question,
		Answer:   strings.TrimSpace(out.Answer),
	}, nil
}

func (s *SectionWriter) chatJSON(ctx context.Context, directive, input string, v any) error {
	return chatJSON(ctx, s.llm, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: directiveCommon},
		{Role: driven.RoleSystem, Content: directive},
		{Role: driven.RoleUser, Content: input},
	}, v)
}

// chatJSON asks for a JSON reply and decodes it into v.
func chatJSON(ctx context.Context, llm driven.LLMService, messages []driven.ChatMessage, v any) error {
	reply, err := llm.Chat(ctx, messages, driven.ChatOptions{JSON: true})
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonBody(reply)), v); err != nil {
		return fmt.Errorf("decode %s reply: %w", llm.ModelName(), err)
	}
	return nil
}

// jsonBody strips Markdown code fences and any text around the outermost
// JSON object.
func jsonBody(reply string) string {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return strings.TrimSpace(reply)
	}
	return reply[start : end+1]
}
