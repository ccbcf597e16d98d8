package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a document format no extractor handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrGeneratorUnavailable indicates no generation service is configured.
	// Answers fall back to the synthesized form.
	ErrGeneratorUnavailable = errors.New("generation service unavailable")

	// ErrRateLimited indicates the generation call budget was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrGenerationFailed indicates all model variants failed or timed out.
	ErrGenerationFailed = errors.New("generation failed")
)
