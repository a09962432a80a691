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

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Neither ingestion nor querying works without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generative model service is not
	// configured. Queries cannot be synthesized without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// ProviderError reports a failed or malformed remote model call.
// It is fatal to the current ingestion document or query and carries
// the provider's status for the caller to surface.
type ProviderError struct {
	// Provider names the failing service ("openai", ...).
	Provider string

	// Status is the HTTP status of the failed call, 0 when the call
	// never completed.
	Status int

	// Message is the provider's error text.
	Message string

	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: provider error (status %d): %s", e.Provider, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: provider error: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: provider error: %s", e.Provider, e.Message)
}

// Unwrap exposes the underlying transport error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}
