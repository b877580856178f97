package search

import "errors"

// ErrNoRetriever indicates that no retriever was provided.
var ErrNoRetriever = errors.New("archive search is not available")
