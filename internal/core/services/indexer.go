package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

// RecordFormatter flattens a stored record into the text that is embedded.
// The first line must be "Title: <title>".
type RecordFormatter func(rec domain.StoredRecord) string

// FormatRecord renders title, question, answer and link.
func FormatRecord(rec domain.StoredRecord) string {
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(rec.Title)
	b.WriteString("\nQ: ")
	b.WriteString(rec.Question)
	b.WriteString("\nA: ")
	b.WriteString(rec.Answer)
	b.WriteString("\nLink: ")
	b.WriteString(rec.Link)
	return b.String()
}

// FormatIQRSRecord is FormatRecord plus the reference number line.
func FormatIQRSRecord(rec domain.StoredRecord) string {
	return FormatRecord(rec) + "\nRef_no: " + rec.RefNo
}

// FormatDocumentChunk renders a document chunk, which has no question.
func FormatDocumentChunk(rec domain.StoredRecord) string {
	return "Title: " + rec.Title + "\nContent: " + rec.Answer + "\nLink: " + rec.Link
}

// FormatterFor returns the formatter for a connector type.
func FormatterFor(connectorType string) RecordFormatter {
	switch connectorType {
	case domain.ConnectorTypeIQRS:
		return FormatIQRSRecord
	case domain.ConnectorTypePDF:
		return FormatDocumentChunk
	default:
		return FormatRecord
	}
}

// Indexer embeds stored records and appends them to a source's collection.
type Indexer struct {
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
}

// NewIndexer creates an indexer. A nil embedder makes every non-empty
// Index call fail with ErrEmbeddingUnavailable.
func NewIndexer(embedder driven.EmbeddingService, vectors driven.VectorStore) *Indexer {
	return &Indexer{embedder: embedder, vectors: vectors}
}

// Index appends records to the source's collection and returns how many
// entries were written. Empty input makes no embedding call.
func (ix *Indexer) Index(ctx context.Context, source domain.Source, records []domain.StoredRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if ix.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	format := FormatterFor(source.Type)
	docs := make([]string, len(records))
	for i, rec := range records {
		docs[i] = format(rec)
	}

	embeddings, err := ix.embedder.EmbedBatch(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("embed records: %w", err)
	}
	if len(embeddings) != len(docs) {
		return 0, fmt.Errorf("embed records: got %d embeddings for %d documents", len(embeddings), len(docs))
	}

	entries := make([]domain.VectorEntry, len(records))
	for i, rec := range records {
		entries[i] = domain.VectorEntry{
			Title:     rec.Title,
			Document:  docs[i],
			Embedding: embeddings[i],
		}
	}

	ids, err := ix.vectors.Append(ctx, source.CollectionName(), entries)
	if err != nil {
		return 0, fmt.Errorf("append to %s: %w", source.CollectionName(), err)
	}
	return len(ids), nil
}
