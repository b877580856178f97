package mcp

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	hits        []domain.SearchHit
	collections []domain.CollectionInfo
	err         error

	gotCollections []string
	gotQuery       string
	gotTopK        int
}

func (m *mockRetriever) Search(_ context.Context, collections []string, query string, topK int) ([]domain.SearchHit, error) {
	m.gotCollections = collections
	m.gotQuery = query
	m.gotTopK = topK
	return m.hits, m.err
}

func (m *mockRetriever) Collections(_ context.Context) ([]domain.CollectionInfo, error) {
	return m.collections, m.err
}

// mockSourceService is a mock implementation of driving.SourceService.
type mockSourceService struct {
	sources []domain.Source
	err     error
}

func (m *mockSourceService) Add(_ context.Context, _ domain.Source) error { return m.err }

func (m *mockSourceService) Get(_ context.Context, _ string) (*domain.Source, error) {
	return nil, m.err
}

func (m *mockSourceService) List(_ context.Context) ([]domain.Source, error) {
	return m.sources, m.err
}

func (m *mockSourceService) Remove(_ context.Context, _ string) error { return m.err }

func (m *mockSourceService) EnsureDefaults(_ context.Context) error { return m.err }

func (m *mockSourceService) ValidateConfig(_ context.Context, _ string, _ map[string]string) error {
	return m.err
}

// mockSyncOrchestrator is a mock implementation of driving.SyncOrchestrator.
type mockSyncOrchestrator struct {
	result  *domain.SyncResult
	err     error
	gotOpts domain.SyncOptions
}

func (m *mockSyncOrchestrator) Sync(_ context.Context, _ string, opts domain.SyncOptions) (*domain.SyncResult, error) {
	m.gotOpts = opts
	return m.result, m.err
}

func (m *mockSyncOrchestrator) SyncAll(_ context.Context, _ domain.SyncOptions) ([]domain.SyncResult, error) {
	return nil, m.err
}

func (m *mockSyncOrchestrator) Status(_ context.Context, _ string) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{}, nil
}

// mockRecordService is a mock implementation of driving.RecordService.
type mockRecordService struct {
	records []domain.StoredRecord
	record  *domain.StoredRecord
	err     error
}

func (m *mockRecordService) List(_ context.Context, _ string, _ int) ([]domain.StoredRecord, error) {
	return m.records, m.err
}

func (m *mockRecordService) Get(_ context.Context, _, _ string) (*domain.StoredRecord, error) {
	return m.record, m.err
}

func (m *mockRecordService) Count(_ context.Context, _ string) (int, error) {
	return len(m.records), m.err
}

// Ensure mocks implement interfaces.
var (
	_ driving.Retriever        = (*mockRetriever)(nil)
	_ driving.SourceService    = (*mockSourceService)(nil)
	_ driving.SyncOrchestrator = (*mockSyncOrchestrator)(nil)
	_ driving.RecordService    = (*mockRecordService)(nil)
)
