// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The sync orchestrator and indexer form the ingestion side; the
// retriever, workflow and session manager form the newsletter side.
package services
