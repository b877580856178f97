package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

const recordColumns = `source_id, key, title, question, answer, link, ref_no, state, date, indexed, created_at, updated_at`

// Upsert inserts or overwrites a record. The original created_at and
// insertion order are preserved on overwrite.
func (s *recordStore) Upsert(ctx context.Context, rec domain.StoredRecord) error {
	if rec.SourceID == "" || rec.Key == "" {
		return fmt.Errorf("%w: record requires source and key", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id, key) DO UPDATE SET
			title = excluded.title,
			question = excluded.question,
			answer = excluded.answer,
			link = excluded.link,
			ref_no = excluded.ref_no,
			state = excluded.state,
			date = excluded.date,
			indexed = excluded.indexed,
			updated_at = excluded.updated_at
	`, rec.SourceID, rec.Key, rec.Title, rec.Question, rec.Answer, rec.Link, rec.RefNo,
		string(rec.State), rec.Date, boolToInt(rec.Indexed),
		formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// Get retrieves a record.
func (s *recordStore) Get(ctx context.Context, sourceID, key string) (*domain.StoredRecord, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE source_id = ? AND key = ?`, sourceID, key)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

// List returns a source's records, most recently updated first.
func (s *recordStore) List(ctx context.Context, sourceID string, limit int) ([]domain.StoredRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE source_id = ? ORDER BY updated_at DESC, rowid DESC`
	args := []any{sourceID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// ListUnindexed returns records not yet appended to a collection, in insertion order.
func (s *recordStore) ListUnindexed(ctx context.Context, sourceID string) ([]domain.StoredRecord, error) {
	return s.query(ctx,
		`SELECT `+recordColumns+` FROM records WHERE source_id = ? AND indexed = 0 ORDER BY rowid`, sourceID)
}

// MarkIndexed flags the given keys as indexed.
func (s *recordStore) MarkIndexed(ctx context.Context, sourceID string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `UPDATE records SET indexed = 1 WHERE source_id = ? AND key = ?`)
	if err != nil {
		return fmt.Errorf("preparing update: %w", err)
	}
	defer stmt.Close()

	for _, key := range keys {
		if _, err := stmt.ExecContext(ctx, sourceID, key); err != nil {
			return fmt.Errorf("marking record %s indexed: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Count returns the number of records stored for a source.
func (s *recordStore) Count(ctx context.Context, sourceID string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE source_id = ?`, sourceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// DeleteSource removes every record of a source.
func (s *recordStore) DeleteSource(ctx context.Context, sourceID string) error {
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM records WHERE source_id = ?`, sourceID); err != nil {
		return fmt.Errorf("deleting records: %w", err)
	}
	return nil
}

func (s *recordStore) query(ctx context.Context, query string, args ...any) ([]domain.StoredRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.StoredRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

func scanRecord(row rowScanner) (*domain.StoredRecord, error) {
	var rec domain.StoredRecord
	var state, createdAt, updatedAt string
	var indexed int
	err := row.Scan(&rec.SourceID, &rec.Key, &rec.Title, &rec.Question, &rec.Answer,
		&rec.Link, &rec.RefNo, &state, &rec.Date, &indexed, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	rec.State = domain.RecordState(strings.TrimSpace(state))
	rec.Indexed = indexed != 0
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}
