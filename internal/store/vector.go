// Package store provides the persistent nearest-neighbor index a
// collection is served from. It wraps a pure-Go HNSW graph and keeps
// the documents the index was built from alongside the vectors, so a
// loaded snapshot is self-contained.
package store

import (
	"bufio"
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"

	"github.com/helpsek/helpsek/internal/corpus"
	"github.com/helpsek/helpsek/internal/errors"
)

// Default HNSW parameters.
const (
	DefaultM        = 16
	DefaultEfSearch = 20
)

// Config holds index construction parameters.
type Config struct {
	// Dimensions is the embedding dimension. Required.
	Dimensions int
	// M is the maximum number of graph neighbors per node.
	M int
	// EfSearch is the search beam width.
	EfSearch int
}

// SearchResult pairs a stored document with its similarity to a query.
type SearchResult struct {
	Document   *corpus.Document
	Similarity float32
}

// snapshotMetadata is the gob-persisted companion of the graph file.
type snapshotMetadata struct {
	IDMap     map[string]uint64
	NextKey   uint64
	Config    Config
	Documents map[string]*corpus.Document
}

// VectorStore is an HNSW-backed nearest-neighbor index over documents.
// Once populated it is safe for concurrent reads; writes happen only
// during the startup build.
type VectorStore struct {
	mu     sync.RWMutex
	graph  *hnsw.Graph[uint64]
	config Config

	docs    map[string]*corpus.Document
	idMap   map[string]uint64
	keyMap  map[uint64]string
	nextKey uint64
}

// New creates an empty vector store.
func New(cfg Config) (*VectorStore, error) {
	if cfg.Dimensions <= 0 {
		return nil, errors.InternalError("vector store requires a positive dimension", nil)
	}
	if cfg.M == 0 {
		cfg.M = DefaultM
	}
	if cfg.EfSearch == 0 {
		cfg.EfSearch = DefaultEfSearch
	}

	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = cfg.M
	graph.EfSearch = cfg.EfSearch
	graph.Ml = 0.25

	return &VectorStore{
		graph:  graph,
		config: cfg,
		docs:   make(map[string]*corpus.Document),
		idMap:  make(map[string]uint64),
		keyMap: make(map[uint64]string),
	}, nil
}

// Add inserts documents with their embedding vectors. Vectors are
// normalized in place for cosine distance. Existing IDs are replaced
// lazily (the old graph node is orphaned, never deleted).
func (s *VectorStore) Add(ctx context.Context, docs []*corpus.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return errors.InternalError(
			fmt.Sprintf("documents and vectors length mismatch: %d vs %d", len(docs), len(vectors)), nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range vectors {
		if len(v) != s.config.Dimensions {
			return errors.New(errors.ErrCodeDimensionMismatch,
				fmt.Sprintf("expected dimension %d, got %d", s.config.Dimensions, len(v)), nil)
		}
	}

	for i, doc := range docs {
		if existingKey, exists := s.idMap[doc.ID]; exists {
			delete(s.keyMap, existingKey)
			delete(s.idMap, doc.ID)
		}

		key := s.nextKey
		s.nextKey++

		vec := make([]float32, len(vectors[i]))
		copy(vec, vectors[i])
		normalizeVectorInPlace(vec)

		s.graph.Add(hnsw.MakeNode(key, vec))

		s.idMap[doc.ID] = key
		s.keyMap[key] = doc.ID
		s.docs[doc.ID] = doc
	}

	return nil
}

// Search returns up to k documents ordered by descending similarity.
// A store holding fewer than k documents returns all of them.
func (s *VectorStore) Search(ctx context.Context, query []float32, k int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(query) != s.config.Dimensions {
		return nil, errors.New(errors.ErrCodeDimensionMismatch,
			fmt.Sprintf("expected dimension %d, got %d", s.config.Dimensions, len(query)), nil)
	}
	if k <= 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("k must be positive, got %d", k))
	}

	if s.graph.Len() == 0 {
		return []SearchResult{}, nil
	}

	normalized := make([]float32, len(query))
	copy(normalized, query)
	normalizeVectorInPlace(normalized)

	nodes := s.graph.Search(normalized, k)

	results := make([]SearchResult, 0, len(nodes))
	for _, node := range nodes {
		id, exists := s.keyMap[node.Key]
		if !exists {
			// Orphaned by a lazy replace; skip.
			continue
		}
		doc, exists := s.docs[id]
		if !exists {
			continue
		}

		distance := s.graph.Distance(normalized, node.Value)
		results = append(results, SearchResult{
			Document:   doc,
			Similarity: 1.0 - distance/2.0,
		})
	}

	return results, nil
}

// Count returns the number of stored documents.
func (s *VectorStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Dimensions returns the configured embedding dimension.
func (s *VectorStore) Dimensions() int {
	return s.config.Dimensions
}

// Save persists the index snapshot into dir: the exported HNSW graph
// plus a gob file carrying ID mappings and the source documents. Both
// files are written via temp-then-rename so a crash never leaves a
// half-written snapshot that would be mistaken for a loadable one.
func (s *VectorStore) Save(dir string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.InternalError(fmt.Sprintf("create snapshot directory: %v", err), err)
	}

	graphPath := filepath.Join(dir, "index.hnsw")
	tmpGraphPath := graphPath + ".tmp"
	file, err := os.Create(tmpGraphPath)
	if err != nil {
		return errors.InternalError(fmt.Sprintf("create graph file: %v", err), err)
	}
	if err := s.graph.Export(file); err != nil {
		file.Close()
		os.Remove(tmpGraphPath)
		return errors.InternalError(fmt.Sprintf("export graph: %v", err), err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpGraphPath)
		return errors.InternalError(fmt.Sprintf("close graph file: %v", err), err)
	}
	if err := os.Rename(tmpGraphPath, graphPath); err != nil {
		os.Remove(tmpGraphPath)
		return errors.InternalError(fmt.Sprintf("rename graph file: %v", err), err)
	}

	return s.saveMetadata(filepath.Join(dir, "index.meta"))
}

// saveMetadata writes ID mappings and documents to a gob file.
func (s *VectorStore) saveMetadata(path string) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return errors.InternalError(fmt.Sprintf("create metadata file: %v", err), err)
	}

	meta := snapshotMetadata{
		IDMap:     s.idMap,
		NextKey:   s.nextKey,
		Config:    s.config,
		Documents: s.docs,
	}

	if err := gob.NewEncoder(file).Encode(meta); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return errors.InternalError(fmt.Sprintf("encode metadata: %v", err), err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.InternalError(fmt.Sprintf("close metadata file: %v", err), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.InternalError(fmt.Sprintf("rename metadata file: %v", err), err)
	}
	return nil
}

// Load restores a snapshot previously written by Save.
func Load(dir string) (*VectorStore, error) {
	meta, err := loadMetadata(filepath.Join(dir, "index.meta"))
	if err != nil {
		return nil, err
	}

	s, err := New(meta.Config)
	if err != nil {
		return nil, err
	}

	s.idMap = meta.IDMap
	s.nextKey = meta.NextKey
	s.docs = meta.Documents
	for id, key := range s.idMap {
		s.keyMap[key] = id
	}

	graphPath := filepath.Join(dir, "index.hnsw")
	file, err := os.Open(graphPath)
	if err != nil {
		return nil, errors.New(errors.ErrCodeSnapshotCorrupt,
			fmt.Sprintf("open graph file: %v", err), err)
	}
	defer file.Close()

	// coder/hnsw Import requires an io.ByteReader.
	if err := s.graph.Import(bufio.NewReader(file)); err != nil {
		return nil, errors.New(errors.ErrCodeSnapshotCorrupt,
			fmt.Sprintf("import graph: %v", err), err)
	}

	return s, nil
}

// loadMetadata reads the gob companion file.
func loadMetadata(path string) (*snapshotMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeSnapshotCorrupt,
			fmt.Sprintf("open metadata file: %v", err), err)
	}
	defer file.Close()

	var meta snapshotMetadata
	if err := gob.NewDecoder(file).Decode(&meta); err != nil {
		return nil, errors.New(errors.ErrCodeSnapshotCorrupt,
			fmt.Sprintf("decode metadata: %v", err), err)
	}
	return &meta, nil
}

// SnapshotExists reports whether dir holds a non-empty snapshot. This
// is the sole load-vs-build signal at startup.
func SnapshotExists(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	return len(entries) > 0
}

// normalizeVectorInPlace normalizes a vector to unit length in place.
func normalizeVectorInPlace(v []float32) {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sumSquares))
	for i := range v {
		v[i] *= inv
	}
}
