package embed

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/helpsek/helpsek/internal/errors"
)

// GeminiConfig configures the Gemini embedding provider.
type GeminiConfig struct {
	// APIKey is the Google AI Studio API key.
	APIKey string
	// Model is the embedding model id (default: text-embedding-004).
	Model string
	// Dimensions is the expected vector dimension. Zero means detect
	// from the first embedding.
	Dimensions int
}

// GeminiEmbedder generates embeddings through the Gemini API.
type GeminiEmbedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
	name   string

	mu   sync.Mutex
	dims int
}

var _ Embedder = (*GeminiEmbedder)(nil)

// NewGeminiEmbedder creates a Gemini-backed embedder.
func NewGeminiEmbedder(ctx context.Context, cfg GeminiConfig) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.ConfigError("gemini embedder requires an API key", nil)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed,
			fmt.Sprintf("create gemini client: %v", err), err)
	}

	return &GeminiEmbedder{
		client: client,
		model:  client.EmbeddingModel(cfg.Model),
		name:   cfg.Model,
		dims:   cfg.Dimensions,
	}, nil
}

// Embed generates an embedding for a single text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed,
			fmt.Sprintf("embed content: %v", err), err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed, "empty embedding response", nil)
	}

	values := resp.Embedding.Values

	e.mu.Lock()
	if e.dims == 0 {
		e.dims = len(values)
	}
	e.mu.Unlock()

	return values, nil
}

// EmbedBatch generates embeddings for multiple texts using the batch
// endpoint, preserving input order.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	batch := e.model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := e.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed,
			fmt.Sprintf("batch embed contents: %v", err), err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed,
			fmt.Sprintf("batch embed returned %d embeddings for %d texts", len(resp.Embeddings), len(texts)), nil)
	}

	results := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, errors.New(errors.ErrCodeEmbeddingFailed,
				fmt.Sprintf("empty embedding for text %d", i), nil)
		}
		results[i] = emb.Values
	}

	e.mu.Lock()
	if e.dims == 0 {
		e.dims = len(results[0])
	}
	e.mu.Unlock()

	return results, nil
}

// Dimensions returns the embedding dimension, or zero before the first
// successful call when not configured explicitly.
func (e *GeminiEmbedder) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dims
}

// ModelName returns the model identifier.
func (e *GeminiEmbedder) ModelName() string {
	return e.name
}

// Close releases the underlying client.
func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}
