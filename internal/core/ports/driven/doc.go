// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Connector: Fetches list pages and record details from a source
//   - ConnectorFactory: Creates connectors from source configuration
//   - RecordStore: Durable per-source record persistence
//   - SourceStore: Source configuration persistence
//   - VectorStore: Append-only named vector collections
//   - EmbeddingService: Generates vector embeddings
//   - ConfigStore: Application configuration
//
// # Workflow Collaborators
//
//   - NewsSearcher: Finds news candidates for a topic
//   - PolicySearcher: Lists recent policy announcements
//   - ArticleFetcher: Fetches the full text of a news candidate
//   - Renderer: Turns an assembled newsletter into a document
//   - SessionStore: Holds workflow sessions between turns
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
