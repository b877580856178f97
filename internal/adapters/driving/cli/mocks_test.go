package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

// execute runs the root command with args against the given services and
// returns everything written to stdout and stderr.
func execute(t *testing.T, svcs *Services, stdin string, args ...string) (string, error) {
	t.Helper()

	SetServices(&Services{})
	SetServices(svcs)
	resetFlags()
	t.Cleanup(func() {
		SetServices(&Services{})
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	var in io.Reader = strings.NewReader(stdin)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores flag variables, which persist across executions.
func resetFlags() {
	syncMaxPages = 0
	syncStopAfterComplete = 0
	sourceAddID = ""
	sourceAddName = ""
	sourceAddCollection = ""
	sourceAddConfig = nil
	recordsLimit = 20
	searchLimit = 5
	searchJSON = false
	searchCollections = nil
	newsletterNoPreview = false
	opinionNoPreview = false
}

type mockSourceService struct {
	sources []domain.Source
	added   []domain.Source
	removed []string
	err     error
}

func (m *mockSourceService) Add(_ context.Context, s domain.Source) error {
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, s)
	return nil
}

func (m *mockSourceService) Get(_ context.Context, id string) (*domain.Source, error) {
	for i := range m.sources {
		if m.sources[i].ID == id {
			return &m.sources[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSourceService) List(context.Context) ([]domain.Source, error) {
	return m.sources, m.err
}

func (m *mockSourceService) Remove(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, id)
	return nil
}

func (m *mockSourceService) EnsureDefaults(context.Context) error { return nil }

func (m *mockSourceService) ValidateConfig(context.Context, string, map[string]string) error {
	return nil
}

type mockRegistry struct {
	types []domain.ConnectorType
}

func (m *mockRegistry) List() []domain.ConnectorType { return m.types }

func (m *mockRegistry) Get(id string) (*domain.ConnectorType, error) {
	for i := range m.types {
		if m.types[i].ID == id {
			return &m.types[i], nil
		}
	}
	return nil, domain.ErrUnsupportedType
}

type mockSyncOrchestrator struct {
	mu       sync.Mutex
	result   *domain.SyncResult
	results  []domain.SyncResult
	err      error
	sourceID string
	opts     domain.SyncOptions
}

func (m *mockSyncOrchestrator) Sync(_ context.Context, id string, opts domain.SyncOptions) (*domain.SyncResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sourceID = id
	m.opts = opts
	return m.result, m.err
}

func (m *mockSyncOrchestrator) SyncAll(_ context.Context, opts domain.SyncOptions) ([]domain.SyncResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = opts
	return m.results, m.err
}

func (m *mockSyncOrchestrator) Status(context.Context, string) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{}, nil
}

type mockRecordService struct {
	records []domain.StoredRecord
	limit   int
	err     error
}

func (m *mockRecordService) List(_ context.Context, _ string, limit int) ([]domain.StoredRecord, error) {
	m.limit = limit
	return m.records, m.err
}

func (m *mockRecordService) Get(_ context.Context, _, key string) (*domain.StoredRecord, error) {
	for i := range m.records {
		if m.records[i].Key == key {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRecordService) Count(context.Context, string) (int, error) {
	return len(m.records), m.err
}

type mockRetriever struct {
	hits        []domain.SearchHit
	infos       []domain.CollectionInfo
	err         error
	query       string
	collections []string
	topK        int
}

func (m *mockRetriever) Search(_ context.Context, collections []string, query string, topK int) ([]domain.SearchHit, error) {
	m.collections = collections
	m.query = query
	m.topK = topK
	return m.hits, m.err
}

func (m *mockRetriever) Collections(context.Context) ([]domain.CollectionInfo, error) {
	return m.infos, m.err
}

type mockSettingsService struct {
	settings    domain.Settings
	set         map[string]string
	setErr      error
	validateErr error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	st := m.settings
	return &st, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"news.sources", "retrieval.top_k"}
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

type mockScheduler struct {
	tasks   []domain.ScheduledTask
	started bool
	stopped bool
}

func (m *mockScheduler) Start(context.Context) error {
	m.started = true
	return nil
}

func (m *mockScheduler) Stop() error {
	m.stopped = true
	return nil
}

func (m *mockScheduler) Tasks(context.Context) ([]domain.ScheduledTask, error) {
	return m.tasks, nil
}

// scriptedSessions replays one StepResult per call and tracks the phase.
type scriptedSessions struct {
	state   domain.SessionState
	replies []domain.StepResult
	phases  []domain.Phase
	calls   []string
	ended   bool
}

func (s *scriptedSessions) next(call string) (domain.StepResult, error) {
	s.calls = append(s.calls, call)
	if len(s.replies) == 0 {
		return domain.StepResult{}, domain.ErrPhaseMismatch
	}
	res := s.replies[0]
	s.replies = s.replies[1:]
	if len(s.phases) > 0 {
		s.state.Phase = s.phases[0]
		s.phases = s.phases[1:]
	}
	return res, nil
}

func (s *scriptedSessions) Start(context.Context) (*domain.SessionState, error) {
	st := s.state
	return &st, nil
}

func (s *scriptedSessions) Get(context.Context, string) (*domain.SessionState, error) {
	st := s.state
	return &st, nil
}

func (s *scriptedSessions) Step(_ context.Context, _, input string) (domain.StepResult, error) {
	return s.next("step:" + input)
}

func (s *scriptedSessions) ChooseNews(_ context.Context, _, title string) (domain.StepResult, error) {
	return s.next("news:" + title)
}

func (s *scriptedSessions) ChooseConsult(_ context.Context, _, title string) (domain.StepResult, error) {
	return s.next("consult:" + title)
}

func (s *scriptedSessions) ChoosePolicy(context.Context, string, []int) (domain.StepResult, error) {
	return s.next("policy")
}

func (s *scriptedSessions) Reset(context.Context, string) error {
	s.calls = append(s.calls, "reset")
	s.state.Phase = domain.PhaseAskNewsTopic
	return nil
}

func (s *scriptedSessions) End(context.Context, string) error {
	s.ended = true
	return nil
}

type mockOpinionWriter struct {
	query string
	op    *domain.LegalOpinion
	doc   *domain.RenderedDocument
	err   error
}

func (m *mockOpinionWriter) Write(_ context.Context, query string) (*domain.LegalOpinion, *domain.RenderedDocument, error) {
	m.query = query
	return m.op, m.doc, m.err
}
