package service

import "errors"

// Error taxonomy surfaced to the API layer. Services wrap these sentinels
// with fmt.Errorf("...: %w", ...) so callers match them with errors.Is.
var (
	// ErrNotFound signals that a referenced expense, settlement, group or
	// user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden signals a missing membership or insufficient privilege.
	ErrForbidden = errors.New("not authorized")

	// ErrValidation signals invalid input, including split/amount
	// mismatches and illegal settlement state transitions.
	ErrValidation = errors.New("invalid input")
)
