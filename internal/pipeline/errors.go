package pipeline

import "errors"

var (
	// ErrInput is returned for missing or invalid caller input. Nothing is
	// written to disk when input validation fails.
	ErrInput = errors.New("invalid input")

	// ErrEncoding is returned when an external encoder invocation exits
	// non-zero. Artifacts from prior successful stages stay on disk, which
	// is what makes incremental re-runs work.
	ErrEncoding = errors.New("encoding failed")
)
