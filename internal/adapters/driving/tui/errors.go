package tui

import "errors"

// ErrMissingWorkflowSessions is returned when the session manager is not provided.
var ErrMissingWorkflowSessions = errors.New("tui: workflow sessions are required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
