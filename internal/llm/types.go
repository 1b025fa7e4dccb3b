// Package llm drives the text-generation capability that composes the
// final answer from retrieved context.
package llm

import "context"

// Generator produces raw answer text from an assembled prompt.
type Generator interface {
	// Generate runs the prompt through the model and returns the raw
	// response text. Failures, including timeout expiry, surface as a
	// generation-failure error.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the model identifier.
	ModelName() string

	// Close releases any held resources.
	Close() error
}
