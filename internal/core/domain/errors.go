package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown connector or source type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSyncInProgress indicates a sync is already running for the source.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrListFetch indicates a list page could not be fetched.
	// Records committed before the failure remain committed.
	ErrListFetch = errors.New("list fetch failed")

	// ErrIndexing indicates committed records could not be indexed.
	// They stay marked unindexed and are retried on the next run.
	ErrIndexing = errors.New("indexing failed")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrNoSearchableCollection indicates none of the requested collections exist.
	ErrNoSearchableCollection = errors.New("no searchable collection")

	// Workflow Errors.

	// ErrPhaseMismatch indicates an action was attempted outside its phase.
	ErrPhaseMismatch = errors.New("action not allowed in current phase")

	// ErrNoOptions indicates a selection was attempted with no cached options.
	ErrNoOptions = errors.New("no options available")

	// ErrNoMatchingOption indicates the selected title is not among the options.
	ErrNoMatchingOption = errors.New("no matching option")

	// ErrInvalidSelection indicates a selected index is out of range or repeated.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrSessionNotFound indicates the conversation has no workflow session.
	ErrSessionNotFound = errors.New("session not found")
)

// SelectionError describes a rejected user selection.
// The session state is left unchanged when one is returned.
type SelectionError struct {
	// Action is the rejected operation (e.g. "choose_news").
	Action string
	// Phase is the phase the session was in.
	Phase Phase
	// Value is the offending title or index list.
	Value string
	// Err is one of the workflow sentinel errors.
	Err error
}

func (e *SelectionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s in phase %s: %v", e.Action, e.Phase, e.Err)
	}
	return fmt.Sprintf("%s %q in phase %s: %v", e.Action, e.Value, e.Phase, e.Err)
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}
