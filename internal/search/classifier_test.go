package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helpsek/helpsek/internal/corpus"
)

func TestClassifier_KeywordRouting(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     corpus.Collection
	}{
		{"salary keyword", "berapa gaji jabatan analis", corpus.CollectionFormasi},
		{"placement keyword", "penempatan di Jakarta", corpus.CollectionFormasi},
		{"agency keyword", "instansi mana saja", corpus.CollectionFormasi},
		{"concept question", "apa itu cpns", corpus.CollectionFaq},
		{"procedure question", "bagaimana cara daftar", corpus.CollectionFaq},
		{"legal basis", "dasar hukum seleksi", corpus.CollectionFaq},
		{"acronym only", "pppk", corpus.CollectionFaq},
		{"uppercase input", "BERAPA GAJI ANALIS", corpus.CollectionFormasi},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.question))
		})
	}
}

func TestClassifier_FormasiCheckedBeforeFaq(t *testing.T) {
	// Contains both a formasi keyword (gaji) and a faq keyword (cpns);
	// check order resolves the tie to formasi.
	c := NewClassifier()
	assert.Equal(t, corpus.CollectionFormasi, c.Classify("berapa gaji cpns"))
}

func TestClassifier_LengthHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     corpus.Collection
	}{
		{"single token no keyword", "halo", corpus.CollectionFaq},
		{"three tokens no keyword", "tolong bantu dong", corpus.CollectionFaq},
		// "informasi" contains the substring "formasi", so this long
		// sentence actually routes via keyword, matching the source
		// system's substring behavior.
		{"four plus tokens", "saya ingin tahu semua informasi ini", corpus.CollectionFormasi},
		{"four tokens no keyword", "tolong carikan dokter gigi", corpus.CollectionFormasi},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.question))
		})
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier()
	first := c.Classify("berapa gaji jabatan analis")
	for range 5 {
		assert.Equal(t, first, c.Classify("berapa gaji jabatan analis"))
	}
}
