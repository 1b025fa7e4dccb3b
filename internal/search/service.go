package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/helpsek/helpsek/internal/errors"
	"github.com/helpsek/helpsek/internal/llm"
)

// Service orchestrates one question through the pipeline: classify,
// retrieve, assemble, generate, extract. Transitions are strictly
// sequential per request; any component failure short-circuits with
// that component's error kind.
type Service struct {
	classifier *Classifier
	retriever  *Retriever
	generator  llm.Generator
}

// NewService wires the pipeline components together.
func NewService(classifier *Classifier, retriever *Retriever, generator llm.Generator) *Service {
	return &Service{
		classifier: classifier,
		retriever:  retriever,
		generator:  generator,
	}
}

// Ask answers a single question. k <= 0 selects the configured default
// retrieval size. An empty or whitespace-only question fails before
// any index access.
func (s *Service) Ask(ctx context.Context, question string, k int) (*AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.InvalidInput("question must not be empty")
	}

	detected := s.classifier.Classify(question)

	results, err := s.retriever.Retrieve(ctx, detected, question, k)
	if err != nil {
		return nil, err
	}

	prompt := AssemblePrompt(question, BuildContext(results))

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	answer, fallback := Extract(raw)
	if fallback {
		slog.Warn("structured answer parse failed, returning raw output",
			slog.String("detected_type", string(detected)),
			slog.Int("raw_len", len(raw)))
	}

	slog.Info("question answered",
		slog.String("detected_type", string(detected)),
		slog.Int("retrieved", len(results)),
		slog.Bool("fallback", fallback))

	return &AnswerResult{
		Question:      question,
		DetectedType:  string(detected),
		Answer:        answer,
		RetrievedDocs: summarizeDocs(results),
		Fallback:      fallback,
	}, nil
}
