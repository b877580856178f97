package services

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

// --- Shared fakes for service tests ---

// mockConnector serves list pages and details from maps.
type mockConnector struct {
	sourceID string
	connType string

	mu        stdsync.Mutex
	pages     map[int][]domain.ListRecord
	listErr   map[int]error
	details   map[string]domain.DetailFields
	detailErr map[string]error

	listCalls   []int
	detailCalls []string
	detailTimes []time.Time
	closed      bool
}

func newMockConnector(sourceID string) *mockConnector {
	return &mockConnector{
		sourceID:  sourceID,
		connType:  domain.ConnectorTypeFastCounsel,
		pages:     make(map[int][]domain.ListRecord),
		listErr:   make(map[int]error),
		details:   make(map[string]domain.DetailFields),
		detailErr: make(map[string]error),
	}
}

func (m *mockConnector) Type() string     { return m.connType }
func (m *mockConnector) SourceID() string { return m.sourceID }

func (m *mockConnector) FetchList(_ context.Context, page int) ([]domain.ListRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls = append(m.listCalls, page)
	if err := m.listErr[page]; err != nil {
		return nil, err
	}
	return m.pages[page], nil
}

func (m *mockConnector) FetchDetail(_ context.Context, link string) (domain.DetailFields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailCalls = append(m.detailCalls, link)
	m.detailTimes = append(m.detailTimes, time.Now())
	if err := m.detailErr[link]; err != nil {
		return domain.DetailFields{}, err
	}
	if d, ok := m.details[link]; ok {
		return d, nil
	}
	return domain.DetailFields{Question: "q " + link, Answer: "a " + link}, nil
}

func (m *mockConnector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConnector) detailCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.detailCalls)
}

// mockFactory hands out a fixed connector per source ID.
type mockFactory struct {
	connectors map[string]driven.Connector
	err        error
}

func (f *mockFactory) Create(_ context.Context, source domain.Source) (driven.Connector, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.connectors[source.ID]
	if !ok {
		return nil, domain.ErrUnsupportedType
	}
	return c, nil
}

func (f *mockFactory) Register(string, driven.ConnectorBuilder) {}

func (f *mockFactory) SupportedTypes() []string {
	return []string{domain.ConnectorTypeIQRS, domain.ConnectorTypeFastCounsel}
}

// mockEmbedder returns a one-dimensional embedding per text.
type mockEmbedder struct {
	mu         stdsync.Mutex
	vectors    map[string][]float32
	batchCalls int
	embedCalls int
	texts      []string
	err        error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.err != nil {
		return nil, m.err
	}
	m.texts = append(m.texts, texts...)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbedder) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	return []float32{float32(len(text))}
}

func (m *mockEmbedder) Dimensions() int              { return 1 }
func (m *mockEmbedder) ModelName() string            { return "mock" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func (m *mockEmbedder) batches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batchCalls
}

// mockVectorStore returns canned hits per collection.
type mockVectorStore struct {
	hits     map[string][]domain.SearchHit
	queryErr error

	mu      stdsync.Mutex
	queried []string
}

func (m *mockVectorStore) Collections(_ context.Context) ([]domain.CollectionInfo, error) {
	var out []domain.CollectionInfo
	for name, hits := range m.hits {
		out = append(out, domain.CollectionInfo{Name: name, Count: len(hits)})
	}
	return out, nil
}

func (m *mockVectorStore) Count(_ context.Context, collection string) (int, error) {
	return len(m.hits[collection]), nil
}

func (m *mockVectorStore) Append(context.Context, string, []domain.VectorEntry) ([]int64, error) {
	return nil, errors.New("read only")
}

func (m *mockVectorStore) Query(_ context.Context, collection string, _ []float32, topK int) ([]domain.SearchHit, error) {
	m.mu.Lock()
	m.queried = append(m.queried, collection)
	m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	hits := m.hits[collection]
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// mockNewsSearcher returns canned candidates.
type mockNewsSearcher struct {
	results []domain.Candidate
	err     error

	mu     stdsync.Mutex
	topics []string
}

func (m *mockNewsSearcher) Name() string { return "mock" }

func (m *mockNewsSearcher) Search(_ context.Context, topic string) ([]domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = append(m.topics, topic)
	return m.results, m.err
}

// mockPolicySearcher returns canned policy candidates.
type mockPolicySearcher struct {
	results  []domain.Candidate
	err      error
	maxPages []int
}

func (m *mockPolicySearcher) Search(_ context.Context, maxPages int) ([]domain.Candidate, error) {
	m.maxPages = append(m.maxPages, maxPages)
	return m.results, m.err
}

// mockArticleFetcher returns a fixed text or error.
type mockArticleFetcher struct {
	text string
	err  error
}

func (m *mockArticleFetcher) FetchText(_ context.Context, c domain.Candidate) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.text == "" {
		return "full text of " + c.Title, nil
	}
	return m.text, nil
}

// countingRenderer records every newsletter it renders.
type countingRenderer struct {
	mu       stdsync.Mutex
	rendered []domain.Newsletter
	err      error
}

func (r *countingRenderer) Render(_ context.Context, nl domain.Newsletter) (*domain.RenderedDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.rendered = append(r.rendered, nl)
	return &domain.RenderedDocument{
		Format:  "html",
		Title:   nl.Title,
		Content: []byte(fmt.Sprintf("<h1>%s</h1>", nl.Title)),
	}, nil
}

func (r *countingRenderer) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rendered)
}

// mockLLM answers chats with respond and records every conversation.
type mockLLM struct {
	mu      stdsync.Mutex
	respond func(messages []driven.ChatMessage) (string, error)
	chats   [][]driven.ChatMessage
	opts    []driven.ChatOptions
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.chats = append(m.chats, messages)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()
	if m.respond == nil {
		return "ok", nil
	}
	return m.respond(messages)
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Close() error      { return nil }

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chats)
}

// directiveOf returns the task directive of a conversation.
func directiveOf(messages []driven.ChatMessage) string {
	if len(messages) < 2 {
		return ""
	}
	return messages[1].Content
}

// mockOpinionRenderer records rendered opinions.
type mockOpinionRenderer struct {
	rendered []domain.LegalOpinion
	err      error
}

func (r *mockOpinionRenderer) RenderOpinion(_ context.Context, op domain.LegalOpinion) (*domain.RenderedDocument, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.rendered = append(r.rendered, op)
	return &domain.RenderedDocument{Format: "markdown", Title: op.Query, Path: "/tmp/opinion.md"}, nil
}
