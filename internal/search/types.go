// Package search implements the retrieval-and-answer pipeline: route a
// question to a collection, fetch the most similar documents, assemble
// the prompt, generate an answer, and extract the structured field
// from the raw model output.
package search

import (
	"github.com/helpsek/helpsek/internal/corpus"
	"github.com/helpsek/helpsek/internal/store"
)

// DefaultK is the default number of documents retrieved per question.
const DefaultK = 4

// RetrievedDoc is the per-document summary returned to callers for
// tracing which passages grounded the answer. Field names follow the
// source data's Indonesian vocabulary.
type RetrievedDoc struct {
	Tipe       string `json:"tipe"`
	Instansi   string `json:"instansi"`
	Jabatan    string `json:"jabatan"`
	Penempatan string `json:"penempatan"`
}

// AnswerResult is the structured outcome of one answered question.
type AnswerResult struct {
	Question      string         `json:"question"`
	DetectedType  string         `json:"detected_type"`
	Answer        string         `json:"answer"`
	RetrievedDocs []RetrievedDoc `json:"retrieved_docs"`

	// Fallback records that the structured answer field could not be
	// parsed and the raw model output was returned instead. Local
	// recovery only; never surfaced as an error.
	Fallback bool `json:"-"`
}

// summarizeDocs projects search results into the trace summaries.
func summarizeDocs(results []store.SearchResult) []RetrievedDoc {
	docs := make([]RetrievedDoc, 0, len(results))
	for _, r := range results {
		meta := r.Document.Metadata
		docs = append(docs, RetrievedDoc{
			Tipe:       meta[corpus.MetaTipe],
			Instansi:   meta[corpus.MetaInstansi],
			Jabatan:    meta[corpus.MetaJabatan],
			Penempatan: meta[corpus.MetaPenempatan],
		})
	}
	return docs
}
