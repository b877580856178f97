package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for lexbrief resources.
	uriScheme = "lexbrief://"

	// recordListLimit caps records returned by the source records resource.
	recordListLimit = 100
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "List of all configured record sources",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sources/{sourceId}/records",
		Name:        "source-records",
		Description: "Most recently updated records of a source",
		MIMEType:    "application/json",
	}, s.handleRecordsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "records/{sourceId}/{key}",
		Name:        "record",
		Description: "Question and answer of a single record",
		MIMEType:    "text/plain",
	}, s.handleRecordResource)
}

// handleSourcesResource returns a list of all configured sources.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Source == nil {
		return textResult(req.Params.URI, "application/json", "[]"), nil
	}

	sources, err := s.ports.Source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	type sourceInfo struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Type       string `json:"type"`
		Collection string `json:"collection"`
	}

	infos := make([]sourceInfo, len(sources))
	for i := range sources {
		infos[i] = sourceInfo{
			ID:         sources[i].ID,
			Name:       sources[i].Name,
			Type:       sources[i].Type,
			Collection: sources[i].CollectionName(),
		}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleRecordsResource returns records for a specific source.
func (s *Server) handleRecordsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Records == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sourceID := extractSourceID(req.Params.URI)
	if sourceID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Records.List(ctx, sourceID, recordListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	type recordInfo struct {
		Key   string `json:"key"`
		Title string `json:"title"`
		Date  string `json:"date"`
		State string `json:"state"`
		Link  string `json:"link"`
		URI   string `json:"uri"`
	}

	infos := make([]recordInfo, len(records))
	for i := range records {
		infos[i] = recordInfo{
			Key:   records[i].Key,
			Title: records[i].Title,
			Date:  records[i].Date,
			State: records[i].State.String(),
			Link:  records[i].Link,
			URI:   uriScheme + "records/" + sourceID + "/" + records[i].Key,
		}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleRecordResource returns the text of a single record.
func (s *Server) handleRecordResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Records == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sourceID, key := extractRecordID(req.Params.URI)
	if sourceID == "" || key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	r, err := s.ports.Records.Get(ctx, sourceID, key)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}

	text := fmt.Sprintf("Title: %s\nDate: %s\nLink: %s\n\nQ: %s\n\nA: %s\n", r.Title, r.Date, r.Link, r.Question, r.Answer)
	return textResult(req.Params.URI, "text/plain", text), nil
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return textResult(uri, "application/json", string(data)), nil
}

func textResult(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeType,
			Text:     text,
		}},
	}
}

// extractSourceID extracts the source ID from a URI like lexbrief://sources/{sourceId}/records.
func extractSourceID(uri string) string {
	const prefix = uriScheme + "sources/"
	const suffix = "/records"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

// extractRecordID extracts the source ID and key from lexbrief://records/{sourceId}/{key}.
func extractRecordID(uri string) (sourceID, key string) {
	const prefix = uriScheme + "records/"

	if !strings.HasPrefix(uri, prefix) {
		return "", ""
	}
	sourceID, key, ok := strings.Cut(strings.TrimPrefix(uri, prefix), "/")
	if !ok || strings.Contains(key, "/") {
		return "", ""
	}
	return sourceID, key
}
