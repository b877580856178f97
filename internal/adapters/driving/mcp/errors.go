// Package mcp provides an MCP (Model Context Protocol) server adapter for lexbrief.
// It lets AI assistants search the consultation collections and trigger syncs.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")
