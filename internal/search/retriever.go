package search

import (
	"context"
	"strings"

	"github.com/helpsek/helpsek/internal/corpus"
	"github.com/helpsek/helpsek/internal/embed"
	"github.com/helpsek/helpsek/internal/index"
	"github.com/helpsek/helpsek/internal/store"
)

// ContextSeparator joins retrieved document contents into the single
// context block handed to the prompt.
const ContextSeparator = "\n\n---\n\n"

// Retriever fetches the top-k most similar documents for a question
// from the routed collection's index.
type Retriever struct {
	embedder embed.Embedder
	manager  *index.Manager
	defaultK int
}

// NewRetriever creates a retriever over the given index manager.
func NewRetriever(embedder embed.Embedder, manager *index.Manager, defaultK int) *Retriever {
	if defaultK <= 0 {
		defaultK = DefaultK
	}
	return &Retriever{
		embedder: embedder,
		manager:  manager,
		defaultK: defaultK,
	}
}

// Retrieve returns up to k documents ordered by descending similarity
// as reported by the index; no re-ranking happens here. k <= 0 selects
// the configured default. An index holding fewer than k documents
// yields all of them.
func (r *Retriever) Retrieve(ctx context.Context, collection corpus.Collection, question string, k int) ([]store.SearchResult, error) {
	if k <= 0 {
		k = r.defaultK
	}

	idx, err := r.manager.GetOrBuild(ctx, collection)
	if err != nil {
		return nil, err
	}

	query, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	return idx.Search(ctx, query, k)
}

// BuildContext joins the retrieved documents' contents with the fixed
// separator to form the context block.
func BuildContext(results []store.SearchResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Document.Content)
	}
	return strings.Join(parts, ContextSeparator)
}
