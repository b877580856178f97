package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/lexbrief/internal/adapters/driven/storage/knn"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[string][]domain.VectorEntry
}

// NewVectorStore creates an empty vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{collections: make(map[string][]domain.VectorEntry)}
}

// Collections lists existing collections in name order.
func (s *VectorStore) Collections(_ context.Context) ([]domain.CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]domain.CollectionInfo, 0, len(s.collections))
	for name, entries := range s.collections {
		infos = append(infos, domain.CollectionInfo{Name: name, Count: len(entries)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Count returns the number of entries in a collection.
func (s *VectorStore) Count(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

// Append adds entries with IDs continuing from the collection's count.
func (s *VectorStore) Append(_ context.Context, collection string, entries []domain.VectorEntry) ([]int64, error) {
	if collection == "" {
		return nil, fmt.Errorf("%w: collection name required", domain.ErrInvalidInput)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.collections[collection]
	dims := len(entries[0].Embedding)
	if len(existing) > 0 {
		dims = len(existing[0].Embedding)
	}
	for _, e := range entries {
		if len(e.Embedding) == 0 || len(e.Embedding) != dims {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, knn.ErrDimensionMismatch)
		}
	}

	ids := make([]int64, len(entries))
	for i, e := range entries {
		e.ID = int64(len(existing))
		existing = append(existing, e)
		ids[i] = e.ID
	}
	s.collections[collection] = existing
	return ids, nil
}

// Query returns the topK nearest entries by squared L2 distance.
func (s *VectorStore) Query(_ context.Context, collection string, embedding []float32, topK int) ([]domain.SearchHit, error) {
	s.mu.RLock()
	entries := s.collections[collection]
	s.mu.RUnlock()

	items := make([]knn.Item, len(entries))
	for i, e := range entries {
		items[i] = knn.Item{ID: e.ID, Embedding: e.Embedding}
	}
	ranked, err := knn.TopK(items, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("ranking %s: %w", collection, err)
	}
	hits := make([]domain.SearchHit, len(ranked))
	for i, r := range ranked {
		e := entries[r.Index]
		hits[i] = domain.SearchHit{
			Collection: collection,
			ID:         e.ID,
			Title:      e.Title,
			Document:   e.Document,
			Distance:   r.Distance,
		}
	}
	return hits, nil
}
