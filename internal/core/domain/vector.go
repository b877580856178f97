package domain

// VectorEntry is an append-only member of a vector collection.
type VectorEntry struct {
	// ID is assigned by the store from the collection's count.
	ID int64

	// Title is the structured title of the originating record.
	Title string

	// Document is the flattened text that was embedded.
	Document string

	Embedding []float32
}

// SearchHit is one nearest-neighbour result.
type SearchHit struct {
	Collection string
	ID         int64
	Title      string
	Document   string

	// Distance is the squared Euclidean distance; lower is closer.
	Distance float64
}

// CollectionInfo describes a vector collection.
type CollectionInfo struct {
	Name  string
	Count int
}
