package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

var _ driven.RecordStore = (*RecordStore)(nil)

type recordKey struct {
	source string
	key    string
}

type recordEntry struct {
	rec domain.StoredRecord
	seq int
}

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu      sync.RWMutex
	records map[recordKey]*recordEntry
	nextSeq int

	// Upserts counts writes, for tests asserting no-op runs.
	Upserts int
}

// NewRecordStore creates an empty record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[recordKey]*recordEntry)}
}

// Upsert inserts or overwrites a record, keeping its insertion order.
func (s *RecordStore) Upsert(_ context.Context, rec domain.StoredRecord) error {
	if rec.SourceID == "" || rec.Key == "" {
		return fmt.Errorf("%w: record requires source and key", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Upserts++

	k := recordKey{rec.SourceID, rec.Key}
	if e, ok := s.records[k]; ok {
		rec.CreatedAt = e.rec.CreatedAt
		e.rec = rec
		return nil
	}
	s.records[k] = &recordEntry{rec: rec, seq: s.nextSeq}
	s.nextSeq++
	return nil
}

// Get retrieves a record.
func (s *RecordStore) Get(_ context.Context, sourceID, key string) (*domain.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.records[recordKey{sourceID, key}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rec := e.rec
	return &rec, nil
}

// List returns a source's records, most recently updated first.
func (s *RecordStore) List(_ context.Context, sourceID string, limit int) ([]domain.StoredRecord, error) {
	entries := s.filter(sourceID, func(*recordEntry) bool { return true })
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.rec.UpdatedAt.Equal(b.rec.UpdatedAt) {
			return a.rec.UpdatedAt.After(b.rec.UpdatedAt)
		}
		return a.seq > b.seq
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return records(entries), nil
}

// ListUnindexed returns unindexed records in insertion order.
func (s *RecordStore) ListUnindexed(_ context.Context, sourceID string) ([]domain.StoredRecord, error) {
	entries := s.filter(sourceID, func(e *recordEntry) bool { return !e.rec.Indexed })
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	return records(entries), nil
}

// MarkIndexed flags the given keys as indexed.
func (s *RecordStore) MarkIndexed(_ context.Context, sourceID string, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		if e, ok := s.records[recordKey{sourceID, key}]; ok {
			e.rec.Indexed = true
		}
	}
	return nil
}

// Count returns the number of records stored for a source.
func (s *RecordStore) Count(_ context.Context, sourceID string) (int, error) {
	return len(s.filter(sourceID, func(*recordEntry) bool { return true })), nil
}

// DeleteSource removes every record of a source.
func (s *RecordStore) DeleteSource(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.records {
		if k.source == sourceID {
			delete(s.records, k)
		}
	}
	return nil
}

func (s *RecordStore) filter(sourceID string, keep func(*recordEntry) bool) []recordEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []recordEntry
	for k, e := range s.records {
		if k.source == sourceID && keep(e) {
			out = append(out, *e)
		}
	}
	return out
}

func records(entries []recordEntry) []domain.StoredRecord {
	out := make([]domain.StoredRecord, len(entries))
	for i, e := range entries {
		out[i] = e.rec
	}
	return out
}
