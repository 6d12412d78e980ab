// Package apperr defines the error taxonomy shared by services and the HTTP
// layer. Callers classify failures with errors.Is against the sentinels and
// wrap them with fmt.Errorf("...: %w", ...) for context.
package apperr

import "errors"

var (
	// ErrValidation is returned for missing or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when the actor is not allowed to perform
	// the operation, e.g. a non-current approver recording a decision.
	ErrUnauthorized = errors.New("not authorized")

	// ErrConflict is returned when a decision is attempted on a terminal
	// expense or an optimistic version check fails.
	ErrConflict = errors.New("conflicting state")

	// ErrNotFound is returned for unknown expense/user/company ids.
	ErrNotFound = errors.New("not found")

	// ErrExternal is returned when a required external lookup fails and no
	// fallback value exists.
	ErrExternal = errors.New("external service unavailable")
)
