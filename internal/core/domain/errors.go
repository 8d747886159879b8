// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Target errors
	ErrEmptyTarget    = errors.New("target cannot be empty")
	ErrInvalidDomain  = errors.New("invalid domain format")
	ErrInvalidRunMode = errors.New("invalid run mode")

	// Candidate errors
	ErrInvalidCandidate = errors.New("invalid candidate name")

	// Source errors
	ErrSourceNotFound     = errors.New("source not found")
	ErrNoSourcesAvailable = errors.New("no sources available")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")

	// Output errors
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrInvalidOutputPath = errors.New("invalid output path")
)
