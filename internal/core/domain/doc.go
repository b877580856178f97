// Package domain defines the core business entities for lexbrief.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Source: A configured record source (a connector instance)
//   - ListRecord / StoredRecord: Records discovered on list pages and persisted
//   - VectorEntry / SearchHit: Collection members and query results
//   - Candidate: An item offered to the user for selection
//   - SessionState: The per-conversation workflow state
//   - Newsletter: The assembled document handed to a renderer
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
