package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/lexbrief/internal/adapters/driven/storage/knn"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

// vectorStore implements driven.VectorStore.
// Embeddings are stored as little-endian float32 blobs and searched exactly.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Collections lists existing collections in name order.
func (s *vectorStore) Collections(ctx context.Context) ([]domain.CollectionInfo, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT c.name, COUNT(v.id)
		FROM collections c LEFT JOIN vectors v ON v.collection = c.name
		GROUP BY c.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}
	defer rows.Close()

	var infos []domain.CollectionInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info domain.CollectionInfo
		if err := rows.Scan(&info.Name, &info.Count); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections: %w", err)
	}
	return infos, nil
}

// Count returns the number of entries in a collection.
func (s *vectorStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vectors WHERE collection = ?`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return n, nil
}

// Append adds entries with IDs continuing from the collection's count.
func (s *vectorStore) Append(ctx context.Context, collection string, entries []domain.VectorEntry) ([]int64, error) {
	if collection == "" {
		return nil, fmt.Errorf("%w: collection name required", domain.ErrInvalidInput)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	dims := len(entries[0].Embedding)
	for _, e := range entries {
		if len(e.Embedding) == 0 || len(e.Embedding) != dims {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, knn.ErrDimensionMismatch)
		}
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	err = tx.QueryRowContext(ctx, `SELECT dimensions FROM collections WHERE name = ?`, collection).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collections (name, dimensions, created_at) VALUES (?, ?, ?)`,
			collection, dims, formatTime(time.Now())); err != nil {
			return nil, fmt.Errorf("creating collection: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("reading collection: %w", err)
	case existing != dims:
		return nil, fmt.Errorf("%w: collection %s has %d dimensions, got %d",
			knn.ErrDimensionMismatch, collection, existing, dims)
	}

	var count int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vectors WHERE collection = ?`, collection).Scan(&count); err != nil {
		return nil, fmt.Errorf("counting vectors: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vectors (collection, id, title, document, embedding) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, len(entries))
	for i, e := range entries {
		id := count + int64(i)
		if _, err := stmt.ExecContext(ctx, collection, id, e.Title, e.Document,
			float32SliceToBytes(e.Embedding)); err != nil {
			return nil, fmt.Errorf("inserting vector %d: %w", id, err)
		}
		ids[i] = id
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing: %w", err)
	}
	return ids, nil
}

// Query returns the topK nearest entries by squared L2 distance.
func (s *vectorStore) Query(
	ctx context.Context,
	collection string,
	embedding []float32,
	topK int,
) ([]domain.SearchHit, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT id, title, document, embedding FROM vectors WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	type row struct {
		title, document string
	}
	var (
		items []knn.Item
		meta  []row
	)
	for rows.Next() {
		var (
			id   int64
			r    row
			blob []byte
		)
		if err := rows.Scan(&id, &r.title, &r.document, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		items = append(items, knn.Item{ID: id, Embedding: bytesToFloat32Slice(blob)})
		meta = append(meta, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	ranked, err := knn.TopK(items, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("ranking %s: %w", collection, err)
	}
	hits := make([]domain.SearchHit, len(ranked))
	for i, r := range ranked {
		hits[i] = domain.SearchHit{
			Collection: collection,
			ID:         r.ID,
			Title:      meta[r.Index].title,
			Document:   meta[r.Index].document,
			Distance:   r.Distance,
		}
	}
	return hits, nil
}
