// Package embed converts text into embedding vectors for similarity
// search. The Gemini provider is used in production; the static
// provider keeps the pipeline usable offline and in tests.
package embed

import (
	"context"
	"math"
)

// Common embedding constants.
const (
	// DefaultGeminiModel is the default Gemini embedding model.
	DefaultGeminiModel = "text-embedding-004"

	// StaticDimensions is the embedding dimension for the static embedder.
	StaticDimensions = 256
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension.
	Dimensions() int

	// ModelName returns the model identifier.
	ModelName() string

	// Close releases any held resources.
	Close() error
}

// normalizeVector returns a unit-length copy of v.
// Zero vectors are returned unchanged.
func normalizeVector(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
