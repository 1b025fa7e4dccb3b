package cmd

import (
	"context"
	"strings"

	"github.com/helpsek/helpsek/internal/config"
	"github.com/helpsek/helpsek/internal/corpus"
	"github.com/helpsek/helpsek/internal/embed"
	"github.com/helpsek/helpsek/internal/errors"
	"github.com/helpsek/helpsek/internal/index"
	"github.com/helpsek/helpsek/internal/llm"
	"github.com/helpsek/helpsek/internal/search"
)

// app holds the wired pipeline components for a command invocation.
type app struct {
	cfg       *config.Config
	embedder  embed.Embedder
	manager   *index.Manager
	generator llm.Generator
	service   *search.Service
}

// newApp builds the pipeline from config. The generator is only
// constructed when withGenerator is set; offline index builds do not
// need one.
func newApp(ctx context.Context, cfg *config.Config, withGenerator bool) (*app, error) {
	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}

	manager := index.NewManager(embedder, map[corpus.Collection]index.Sources{
		corpus.CollectionFormasi: {
			SourcePath:  cfg.Corpus.Formasi.SourcePath,
			SnapshotDir: cfg.Corpus.Formasi.SnapshotDir,
		},
		corpus.CollectionFaq: {
			SourcePath:  cfg.Corpus.Faq.SourcePath,
			SnapshotDir: cfg.Corpus.Faq.SnapshotDir,
		},
	})

	a := &app{cfg: cfg, embedder: embedder, manager: manager}

	if withGenerator {
		if cfg.Embeddings.APIKey == "" {
			_ = embedder.Close()
			return nil, errors.ConfigError("an API key is required for answer generation; set GEMINI_API_KEY", nil)
		}
		gen, err := llm.NewGeminiGenerator(ctx, llm.GeminiConfig{
			APIKey:      cfg.Embeddings.APIKey,
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			Timeout:     cfg.Generation.TimeoutDuration(),
		})
		if err != nil {
			_ = embedder.Close()
			return nil, err
		}
		a.generator = gen
		a.service = search.NewService(
			search.NewClassifier(),
			search.NewRetriever(embedder, manager, cfg.Retrieval.TopK),
			gen,
		)
	}

	return a, nil
}

func newEmbedder(ctx context.Context, cfg *config.Config) (embed.Embedder, error) {
	var (
		inner embed.Embedder
		err   error
	)

	switch strings.ToLower(cfg.Embeddings.Provider) {
	case config.ProviderStatic:
		inner = embed.NewStaticEmbedder()
	default:
		inner, err = embed.NewGeminiEmbedder(ctx, embed.GeminiConfig{
			APIKey: cfg.Embeddings.APIKey,
			Model:  cfg.Embeddings.Model,
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.Embeddings.CacheSize > 0 {
		return embed.NewCachedEmbedder(inner, cfg.Embeddings.CacheSize), nil
	}
	return inner, nil
}

// Close releases the embedder and generator clients.
func (a *app) Close() error {
	var firstErr error
	if a.generator != nil {
		if err := a.generator.Close(); err != nil {
			firstErr = err
		}
	}
	if err := a.embedder.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
