package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// defaultTopK matches the retriever default.
const defaultTopK = 5

// SearchInput is the input schema for the search_multiple_collections tool.
type SearchInput struct {
	CollectionNames []string `json:"collection_names,omitempty" jsonschema:"collections to search; empty searches every collection"`
	Query           string   `json:"query" jsonschema:"the user's labor-law question"`
	TopK            int      `json:"top_k,omitempty" jsonschema:"number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved record.
type SearchResultOutput struct {
	Collection string  `json:"collection"`
	Title      string  `json:"title"`
	Document   string  `json:"document"`
	Distance   float64 `json:"distance"`
}

// ListCollectionsInput takes no arguments.
type ListCollectionsInput struct{}

// CollectionsOutput is the output schema for the list_collections tool.
type CollectionsOutput struct {
	Collections []CollectionOutput `json:"collections"`
}

// CollectionOutput describes one collection.
type CollectionOutput struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SyncInput is the input schema for the sync_source tool.
type SyncInput struct {
	SourceID string `json:"source_id" jsonschema:"the source to synchronise"`
	MaxPages int    `json:"max_pages,omitempty" jsonschema:"maximum list pages to scan (0 = source default)"`
}

// SyncOutput summarises a sync run.
type SyncOutput struct {
	SourceID     string `json:"source_id"`
	New          int    `json:"new"`
	Updated      int    `json:"updated"`
	Skipped      int    `json:"skipped"`
	Indexed      int    `json:"indexed"`
	Pages        int    `json:"pages"`
	StoppedEarly bool   `json:"stopped_early"`
	Error        string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_multiple_collections",
		Description: "Search across multiple vector collections of labor consultation records and return merged top-k results.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_collections",
		Description: "List the searchable collections and their sizes.",
	}, s.handleListCollections)

	if s.ports.Sync != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "sync_source",
			Description: "Fetch new and changed records from a source and index them.",
		}, s.handleSync)
	}
}

// handleSearch handles the search_multiple_collections tool invocation.
// Unknown collection names are ignored.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	hits, err := s.ports.Retriever.Search(ctx, input.CollectionNames, input.Query, topK)
	if err != nil {
		if errors.Is(err, domain.ErrNoSearchableCollection) {
			return nil, SearchOutput{Results: []SearchResultOutput{}}, nil
		}
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(hits)),
		Count:   len(hits),
	}
	for i, h := range hits {
		output.Results[i] = SearchResultOutput{
			Collection: h.Collection,
			Title:      domain.CandidateFromHit(h).Title,
			Document:   h.Document,
			Distance:   h.Distance,
		}
	}
	return nil, output, nil
}

// handleListCollections handles the list_collections tool invocation.
func (s *Server) handleListCollections(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListCollectionsInput,
) (*mcp.CallToolResult, CollectionsOutput, error) {
	infos, err := s.ports.Retriever.Collections(ctx)
	if err != nil {
		return nil, CollectionsOutput{}, fmt.Errorf("listing collections: %w", err)
	}
	out := CollectionsOutput{Collections: make([]CollectionOutput, len(infos))}
	for i, info := range infos {
		out.Collections[i] = CollectionOutput{Name: info.Name, Count: info.Count}
	}
	return nil, out, nil
}

// handleSync handles the sync_source tool invocation. A run that committed
// records but then failed reports both its counts and the error.
func (s *Server) handleSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncInput,
) (*mcp.CallToolResult, SyncOutput, error) {
	if input.SourceID == "" {
		return nil, SyncOutput{}, fmt.Errorf("%w: source_id is required", domain.ErrInvalidInput)
	}

	result, err := s.ports.Sync.Sync(ctx, input.SourceID, domain.SyncOptions{MaxPages: input.MaxPages})
	if result == nil {
		if err == nil {
			err = errors.New("sync returned no result")
		}
		return nil, SyncOutput{}, err
	}

	out := SyncOutput{
		SourceID:     input.SourceID,
		New:          result.NewCount,
		Updated:      result.UpdatedCount,
		Skipped:      result.SkippedCount,
		Indexed:      result.Indexed,
		Pages:        result.PagesScanned,
		StoppedEarly: result.StoppedEarly,
	}
	if err != nil {
		out.Error = err.Error()
	}
	return nil, out, nil
}
