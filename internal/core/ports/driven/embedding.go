package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Without it, records cannot be indexed and collections cannot be searched.
//
// Implementations: OpenAI (text-embedding-3-small) and Ollama (nomic-embed-text).
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	// All vectors in a collection must share the same size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used at startup to verify connectivity before a sync or search run.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
