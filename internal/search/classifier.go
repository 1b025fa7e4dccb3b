package search

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/helpsek/helpsek/internal/corpus"
)

// DefaultClassifierCacheSize is the LRU cache size for classification
// results. Questions repeat heavily, so even a small cache hits often.
const DefaultClassifierCacheSize = 1024

// Keyword sets for query routing. Order matters: vacancy keywords are
// checked before regulatory ones, so a question matching both routes
// to formasi.
var (
	formasiKeywords = []string{
		"formasi", "jabatan", "penempatan", "instansi", "gaji",
		"kualifikasi", "unit kerja", "lulusan", "kebutuhan",
	}
	faqKeywords = []string{
		"apa itu", "bagaimana", "aturan", "dasar hukum",
		"pppk", "cpns", "asn", "sscasn",
	}
)

// minFormasiTokens is the length-heuristic threshold: questions of at
// least this many tokens with no keyword hit still route to formasi.
const minFormasiTokens = 4

// Classifier routes a free-text question to a collection using a
// fixed, deterministic keyword heuristic. No learning, no external
// calls.
type Classifier struct {
	cache *lru.Cache[string, corpus.Collection]
}

// NewClassifier creates a classifier with a result cache.
func NewClassifier() *Classifier {
	cache, _ := lru.New[string, corpus.Collection](DefaultClassifierCacheSize)
	return &Classifier{cache: cache}
}

// Classify returns the collection a question should be answered from.
func (c *Classifier) Classify(question string) corpus.Collection {
	q := strings.ToLower(strings.TrimSpace(question))

	if cached, ok := c.cache.Get(q); ok {
		return cached
	}

	result := classifyQuery(q)
	c.cache.Add(q, result)
	return result
}

// classifyQuery applies the routing heuristic to a lower-cased question.
func classifyQuery(q string) corpus.Collection {
	for _, kw := range formasiKeywords {
		if strings.Contains(q, kw) {
			return corpus.CollectionFormasi
		}
	}
	for _, kw := range faqKeywords {
		if strings.Contains(q, kw) {
			return corpus.CollectionFaq
		}
	}

	// Longer questions usually describe a position or placement;
	// short ones are conceptual.
	if len(strings.Fields(q)) >= minFormasiTokens {
		return corpus.CollectionFormasi
	}
	return corpus.CollectionFaq
}
