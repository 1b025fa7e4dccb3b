package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/helpsek/helpsek/internal/errors"
)

// Defaults for the Gemini generation client.
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.2

	// DefaultTimeout bounds a single generation call. The upstream
	// behavior had no timeout at all; expiry maps to a generation
	// failure like any other model error.
	DefaultTimeout = 60 * time.Second
)

// GeminiConfig configures the Gemini generation client.
type GeminiConfig struct {
	// APIKey is the Google AI Studio API key.
	APIKey string
	// Model is the generation model id (default: gemini-2.5-flash).
	Model string
	// Temperature controls sampling randomness.
	Temperature float32
	// Timeout bounds each Generate call.
	Timeout time.Duration
}

// GeminiGenerator generates answers through the Gemini API.
type GeminiGenerator struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
}

var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.ConfigError("gemini generator requires an API key", nil)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, errors.GenerationFailure(fmt.Sprintf("create gemini client: %v", err), err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)

	return &GeminiGenerator{
		client:  client,
		model:   model,
		name:    cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Generate runs the prompt through Gemini and joins the text parts of
// the first candidate set.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errors.GenerationFailure(fmt.Sprintf("generate content: %v", err), err)
	}

	var parts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				parts = append(parts, string(text))
			}
		}
	}

	if len(parts) == 0 {
		return "", errors.GenerationFailure("model returned no text candidates", nil)
	}

	return strings.Join(parts, "\n"), nil
}

// ModelName returns the model identifier.
func (g *GeminiGenerator) ModelName() string {
	return g.name
}

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}
