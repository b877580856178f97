package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.Retriever = (*Retriever)(nil)

// DefaultTopK is used when a search does not ask for a positive topK.
const DefaultTopK = 5

// Retriever searches several vector collections with one query embedding
// and merges the hits into a single ranking.
type Retriever struct {
	embedder    driven.EmbeddingService
	vectors     driven.VectorStore
	defaultTopK int
}

// NewRetriever creates a retriever. The embedder is optional; without it
// Search returns ErrEmbeddingUnavailable.
func NewRetriever(embedder driven.EmbeddingService, vectors driven.VectorStore, defaultTopK int) *Retriever {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &Retriever{embedder: embedder, vectors: vectors, defaultTopK: defaultTopK}
}

// Collections lists the searchable collections.
func (r *Retriever) Collections(ctx context.Context) ([]domain.CollectionInfo, error) {
	infos, err := r.vectors.Collections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return infos, nil
}

// rankedHit remembers a hit's position within its own collection.
type rankedHit struct {
	hit  domain.SearchHit
	rank int
}

// Search returns the topK hits closest to query across collections.
// Ties on distance go to the better per-collection rank, then to the
// collection name.
func (r *Retriever) Search(ctx context.Context, collections []string, query string, topK int) ([]domain.SearchHit, error) {
	logger.Section("Retrieval")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = r.defaultTopK
	}

	names, err := r.resolve(ctx, collections)
	if err != nil {
		return nil, err
	}
	logger.Debug("Query %q over %v (topK %d)", query, names, topK)

	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	perCollection := make([][]domain.SearchHit, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			hits, err := r.vectors.Query(gctx, name, embedding, topK)
			if err != nil {
				return fmt.Errorf("query %s: %w", name, err)
			}
			perCollection[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []rankedHit
	for _, hits := range perCollection {
		for rank, hit := range hits {
			merged = append(merged, rankedHit{hit: hit, rank: rank})
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.hit.Distance != b.hit.Distance {
			return a.hit.Distance < b.hit.Distance
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		return a.hit.Collection < b.hit.Collection
	})
	if len(merged) > topK {
		merged = merged[:topK]
	}

	out := make([]domain.SearchHit, len(merged))
	for i, m := range merged {
		out[i] = m.hit
	}
	logger.Debug("Retrieved %d hits", len(out))
	return out, nil
}

// resolve keeps the requested names that exist, in request order and
// without duplicates. No names means every existing collection.
func (r *Retriever) resolve(ctx context.Context, requested []string) ([]string, error) {
	infos, err := r.vectors.Collections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	existing := make(map[string]bool, len(infos))
	for _, info := range infos {
		existing[info.Name] = true
	}

	if len(requested) == 0 {
		names := make([]string, 0, len(infos))
		for _, info := range infos {
			names = append(names, info.Name)
		}
		sort.Strings(names)
		if len(names) == 0 {
			return nil, domain.ErrNoSearchableCollection
		}
		return names, nil
	}

	seen := make(map[string]bool, len(requested))
	names := make([]string, 0, len(requested))
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if seen[name] {
			continue
		}
		seen[name] = true
		if !existing[name] {
			logger.Debug("Skipping unknown collection %q", name)
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoSearchableCollection, strings.Join(requested, ", "))
	}
	return names, nil
}
