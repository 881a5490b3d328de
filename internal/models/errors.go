package models

import "errors"

// Domain error classes. Adapter failures are never represented here: they
// are absorbed by fallback substitution inside the orchestrator and only
// logged. Everything below propagates to the caller.
var (
	// ErrValidation covers malformed or missing operation input
	// (empty CV text, empty question or answer).
	ErrValidation = errors.New("validation failed")

	// ErrSessionNotFound is returned for an unknown session token.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidState is returned when an operation is invoked against a
	// session in the wrong lifecycle state.
	ErrInvalidState = errors.New("invalid session state")

	// ErrReportGeneration is returned when the report renderer fails during
	// Finalize. Retryable: the session data is preserved.
	ErrReportGeneration = errors.New("report generation failed")
)
