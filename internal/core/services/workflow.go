package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

// Ensure Workflow implements the interface.
var _ driving.Workflow = (*Workflow)(nil)

// Prompts shown to the user.
const (
	msgAskNewsTopic    = "뉴스레터의 [**주목할 만한 뉴스**] 섹션을 위한 검색 **주제**를 입력해 주시기 바랍니다."
	msgTopicRequired   = "주제를 명확히 입력해 주셔야 검색을 진행할 수 있습니다."
	msgNewsOptions     = "'%s'(으)로 검색된 뉴스 기사 목록입니다. **하나를 선택**해 주세요."
	msgAskConsultTopic = "이제 뉴스레터의 [**자문사례**] 섹션을 위한 검색 **주제**를 입력해 주시기 바랍니다."
	msgConsultOptions  = "'%s'(으)로 검색된 노무 상담 사례 목록입니다. **하나를 선택**해 주세요."
	msgPolicyOptions   = "마지막으로 뉴스레터에 포함할 [**정책 자료**]를 선택해주세요. (여러 개 선택 가능)"
	msgReadyToGenerate = "뉴스레터 생성을 원하시면 '생성'을 입력해주세요."
	msgAwaitingPick    = "시스템 대기 중입니다. 사용자에게 선택지 제시 중입니다. (현재: %s)"
	msgNoResults       = "검색 결과가 없습니다. 처음부터 다시 시작하려면 세션을 초기화해 주세요."
	msgNewsChosen      = "뉴스 기사: **%s** 선택 완료"
	msgConsultChosen   = "노무 상담 사례: **%s** 선택 완료"
	msgPolicyChosen    = "정책 자료 %d개 선택 완료"
	msgGenerated       = "뉴스레터가 생성되었습니다: %s"
)

// topicPlaceholders are inputs that start a conversation rather than name a topic.
var topicPlaceholders = map[string]bool{
	"":           true,
	"뉴스레터를 작성해줘": true,
	"시작":         true,
	"start":      true,
}

// generateTriggers start document generation when contained in the input.
var generateTriggers = []string{"생성", "generate"}

// WorkflowConfig tunes the newsletter workflow.
type WorkflowConfig struct {
	// ConsultCollections are searched for consultation cases.
	// Empty means every collection.
	ConsultCollections []string

	// TopK caps consultation candidates.
	TopK int

	// PolicyMaxPages bounds the policy announcement search.
	PolicyMaxPages int

	// Brand prefixes the newsletter title.
	Brand string
}

// Workflow drives a newsletter conversation from topic selection to the
// rendered document. It keeps no per-conversation state.
type Workflow struct {
	news      driven.NewsSearcher
	articles  driven.ArticleFetcher
	retriever driving.Retriever
	policy    driven.PolicySearcher
	renderer  driven.Renderer
	sections  *SectionWriter
	cfg       WorkflowConfig
	now       func() time.Time
}

// NewWorkflow creates a workflow over its collaborators.
func NewWorkflow(
	news driven.NewsSearcher,
	articles driven.ArticleFetcher,
	retriever driving.Retriever,
	policy driven.PolicySearcher,
	renderer driven.Renderer,
	cfg WorkflowConfig,
) *Workflow {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.PolicyMaxPages <= 0 {
		cfg.PolicyMaxPages = 3
	}
	return &Workflow{
		news:      news,
		articles:  articles,
		retriever: retriever,
		policy:    policy,
		renderer:  renderer,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithSectionWriter makes generation write the article and consultation
// sections with a chat model.
func (w *Workflow) WithSectionWriter(sections *SectionWriter) *Workflow {
	w.sections = sections
	return w
}

// Step advances the conversation with free-text input.
// On error the input state is returned unchanged.
func (w *Workflow) Step(ctx context.Context, state domain.SessionState, input string) (domain.SessionState, domain.StepResult, error) {
	next := state.Clone()
	input = strings.TrimSpace(input)

	switch state.Phase {
	case domain.PhaseAskNewsTopic:
		next.Phase = domain.PhaseSetNewsTopic
		return w.touch(next), message(msgAskNewsTopic), nil

	case domain.PhaseSetNewsTopic:
		if isPlaceholder(input) {
			return state, message(msgTopicRequired), nil
		}
		logger.Debug("Session %s: searching news for %q", state.ID, input)
		results, err := w.news.Search(ctx, input)
		if err != nil {
			return state, domain.StepResult{}, fmt.Errorf("search news: %w", err)
		}
		next.NewsTopic = input
		next.NewsOptions = results
		next.Phase = domain.PhaseAwaitingNewsPick
		return w.touch(next), options(domain.StepNewsOptions, fmt.Sprintf(msgNewsOptions, input), results), nil

	case domain.PhaseAskConsultTopic:
		next.Phase = domain.PhaseSetConsultTopic
		return w.touch(next), message(msgAskConsultTopic), nil

	case domain.PhaseSetConsultTopic:
		if isPlaceholder(input) {
			return state, message(msgTopicRequired), nil
		}
		logger.Debug("Session %s: searching consultations for %q", state.ID, input)
		hits, err := w.retriever.Search(ctx, w.cfg.ConsultCollections, input, w.cfg.TopK)
		if err != nil {
			return state, domain.StepResult{}, fmt.Errorf("search consultations: %w", err)
		}
		results := make([]domain.Candidate, len(hits))
		for i, hit := range hits {
			results[i] = domain.CandidateFromHit(hit)
		}
		next.ConsultTopic = input
		next.ConsultOptions = results
		next.Phase = domain.PhaseAwaitingConsultPick
		return w.touch(next), options(domain.StepConsultOptions, fmt.Sprintf(msgConsultOptions, input), results), nil

	case domain.PhasePolicySelect:
		logger.Debug("Session %s: searching policy announcements", state.ID)
		results, err := w.policy.Search(ctx, w.cfg.PolicyMaxPages)
		if err != nil {
			return state, domain.StepResult{}, fmt.Errorf("search policy: %w", err)
		}
		next.PolicyOptions = results
		next.Phase = domain.PhaseAwaitingPolicyPick
		return w.touch(next), options(domain.StepPolicyOptions, msgPolicyOptions, results), nil

	case domain.PhaseReadyToGenerate:
		if !isGenerateTrigger(input) {
			return state, message(msgReadyToGenerate), nil
		}
		return w.generate(ctx, state)

	default:
		if state.Phase.IsAwaitingPick() {
			return state, message(fmt.Sprintf(msgAwaitingPick, state.Phase)), nil
		}
		return state, domain.StepResult{}, fmt.Errorf("%w: unknown phase %q", domain.ErrInvalidInput, state.Phase)
	}
}

// ChooseNews selects a news candidate by exact title and fetches its text.
func (w *Workflow) ChooseNews(ctx context.Context, state domain.SessionState, title string) (domain.SessionState, domain.StepResult, error) {
	const action = "choose_news"
	if err := checkSelectable(action, state, domain.PhaseAwaitingNewsPick, state.NewsOptions, title); err != nil {
		return state, domain.StepResult{}, err
	}

	idx := -1
	for i, c := range state.NewsOptions {
		if c.Title == title {
			idx = i
			break
		}
	}
	if idx < 0 {
		return state, domain.StepResult{}, selectionError(action, state, title, domain.ErrNoMatchingOption)
	}

	next := state.Clone()
	chosen := next.NewsOptions[idx]
	text, err := w.articles.FetchText(ctx, chosen)
	if err != nil {
		if ctx.Err() != nil {
			return state, domain.StepResult{}, ctx.Err()
		}
		logger.Warn("Session %s: article text for %q unavailable, using snippet: %v", state.ID, title, err)
		text = chosen.Content
	}

	next.SelectedNews = &chosen
	next.NewsText = text
	next.Phase = domain.PhaseAskConsultTopic
	return w.touch(next), message(fmt.Sprintf(msgNewsChosen, title)), nil
}

// ChooseConsult selects a consultation candidate. The candidate's title
// must match exactly; documents without a structured title are matched
// on their "Title: <title>" first line.
func (w *Workflow) ChooseConsult(_ context.Context, state domain.SessionState, title string) (domain.SessionState, domain.StepResult, error) {
	const action = "choose_consult"
	if err := checkSelectable(action, state, domain.PhaseAwaitingConsultPick, state.ConsultOptions, title); err != nil {
		return state, domain.StepResult{}, err
	}

	idx := -1
	for i, c := range state.ConsultOptions {
		if c.Title == title {
			idx = i
			break
		}
	}
	if idx < 0 {
		for i, c := range state.ConsultOptions {
			if domain.DocumentHasTitle(c.Content, title) {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return state, domain.StepResult{}, selectionError(action, state, title, domain.ErrNoMatchingOption)
	}

	next := state.Clone()
	chosen := next.ConsultOptions[idx]
	next.SelectedConsult = &chosen
	next.Phase = domain.PhasePolicySelect
	return w.touch(next), message(fmt.Sprintf(msgConsultChosen, chosen.Title)), nil
}

// ChoosePolicy selects zero or more policy candidates by index.
func (w *Workflow) ChoosePolicy(_ context.Context, state domain.SessionState, indices []int) (domain.SessionState, domain.StepResult, error) {
	const action = "choose_policy"
	value := fmt.Sprint(indices)
	if err := checkSelectable(action, state, domain.PhaseAwaitingPolicyPick, state.PolicyOptions, value); err != nil {
		return state, domain.StepResult{}, err
	}

	seen := make(map[int]bool, len(indices))
	selected := make([]domain.Candidate, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(state.PolicyOptions) || seen[i] {
			return state, domain.StepResult{}, selectionError(action, state, value, domain.ErrInvalidSelection)
		}
		seen[i] = true
		selected = append(selected, state.PolicyOptions[i])
	}

	next := state.Clone()
	next.SelectedPolicy = selected
	next.Phase = domain.PhaseReadyToGenerate
	return w.touch(next), message(fmt.Sprintf(msgPolicyChosen, len(selected))), nil
}

// Reset returns the session to its initial phase, keeping its ID.
func (w *Workflow) Reset(state domain.SessionState) domain.SessionState {
	return domain.NewSessionState(state.ID, w.now())
}

// generate assembles the newsletter, renders it once and resets the session.
func (w *Workflow) generate(ctx context.Context, state domain.SessionState) (domain.SessionState, domain.StepResult, error) {
	if state.SelectedNews == nil || state.SelectedConsult == nil {
		return state, domain.StepResult{}, fmt.Errorf("%w: session %s has no news or consultation selected", domain.ErrInvalidInput, state.ID)
	}

	now := w.now()
	nl := domain.Newsletter{
		Title:        domain.NewsletterTitle(w.cfg.Brand, now),
		Date:         now.Format("2006.01.02"),
		NewsTopic:    state.NewsTopic,
		ConsultTopic: state.ConsultTopic,
		Article:      *state.SelectedNews,
		ArticleText:  state.NewsText,
		Consult:      *state.SelectedConsult,
		Policy:       state.SelectedPolicy,
	}
	if err := w.writeSections(ctx, &nl); err != nil {
		return state, domain.StepResult{}, err
	}

	logger.Info("Session %s: rendering %q", state.ID, nl.Title)
	doc, err := w.renderer.Render(ctx, nl)
	if err != nil {
		return state, domain.StepResult{}, fmt.Errorf("render newsletter: %w", err)
	}

	where := doc.Title
	if doc.Path != "" {
		where = doc.Path
	}
	return w.Reset(state), domain.StepResult{
		Type:     domain.StepDocument,
		Message:  fmt.Sprintf(msgGenerated, where),
		Document: doc,
	}, nil
}

// writeSections fills the written sections when a writer is set. A failed
// section keeps the source text; only cancellation is returned.
func (w *Workflow) writeSections(ctx context.Context, nl *domain.Newsletter) error {
	if w.sections == nil {
		return nil
	}

	article, err := w.sections.ArticleSection(ctx, nl.Article, nl.ArticleText)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		logger.Warn("Article section kept as source text: %v", err)
	}
	nl.ArticleSection = article

	consult, err := w.sections.ConsultSection(ctx, nl.Consult)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		logger.Warn("Consultation section kept as indexed text: %v", err)
	}
	nl.ConsultSection = consult
	return nil
}

func (w *Workflow) touch(state domain.SessionState) domain.SessionState {
	state.UpdatedAt = w.now()
	return state
}

// checkSelectable rejects selections outside the awaiting phase or
// against an empty option cache.
func checkSelectable(action string, state domain.SessionState, want domain.Phase, opts []domain.Candidate, value string) error {
	if state.Phase != want {
		return selectionError(action, state, value, domain.ErrPhaseMismatch)
	}
	if len(opts) == 0 {
		return selectionError(action, state, value, domain.ErrNoOptions)
	}
	return nil
}

func selectionError(action string, state domain.SessionState, value string, err error) error {
	return &domain.SelectionError{Action: action, Phase: state.Phase, Value: value, Err: err}
}

func message(text string) domain.StepResult {
	return domain.StepResult{Type: domain.StepMessage, Message: text}
}

func options(kind domain.StepType, text string, opts []domain.Candidate) domain.StepResult {
	if len(opts) == 0 {
		text += "\n" + msgNoResults
	}
	return domain.StepResult{Type: kind, Message: text, Options: opts}
}

func isPlaceholder(input string) bool {
	return topicPlaceholders[strings.ToLower(strings.TrimSpace(input))]
}

func isGenerateTrigger(input string) bool {
	lower := strings.ToLower(input)
	for _, t := range generateTriggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
