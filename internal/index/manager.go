// Package index manages the lifecycle of the per-collection
// nearest-neighbor indexes: build from source records on first start,
// load from a persisted snapshot afterwards.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/helpsek/helpsek/internal/corpus"
	"github.com/helpsek/helpsek/internal/embed"
	"github.com/helpsek/helpsek/internal/errors"
	"github.com/helpsek/helpsek/internal/store"
)

// State is the lifecycle state of a collection index.
type State string

const (
	StateUnbuilt  State = "unbuilt"
	StateBuilding State = "building"
	StateReady    State = "ready"
	StateFailed   State = "failed"
)

// embedBatchSize bounds how many documents go to the embedding
// provider per call during a build.
const embedBatchSize = 32

// Sources locates the inputs and snapshot home of one collection.
type Sources struct {
	// SourcePath is the raw records JSON file.
	SourcePath string
	// SnapshotDir holds the persisted index snapshot. Presence of a
	// non-empty directory is the sole load-vs-build signal.
	SnapshotDir string
}

// entry tracks one collection's index and lifecycle state.
type entry struct {
	mu    sync.Mutex
	state State
	store *store.VectorStore
	err   error
}

// Manager builds or loads collection indexes exactly once per process.
// After a collection reaches Ready its store is immutable and shared
// by all requests; a Failed collection stays failed until restart.
type Manager struct {
	embedder embed.Embedder
	sources  map[corpus.Collection]Sources

	mu      sync.Mutex
	entries map[corpus.Collection]*entry
}

// NewManager creates a manager for the configured collections.
func NewManager(embedder embed.Embedder, sources map[corpus.Collection]Sources) *Manager {
	return &Manager{
		embedder: embedder,
		sources:  sources,
		entries:  make(map[corpus.Collection]*entry),
	}
}

// GetOrBuild returns the Ready index for a collection, loading a
// persisted snapshot or building one from source records on first use.
// Concurrent callers during startup serialize on a per-collection
// lock, so the build runs at most once.
func (m *Manager) GetOrBuild(ctx context.Context, collection corpus.Collection) (*store.VectorStore, error) {
	if !collection.Valid() {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown collection %q", collection))
	}

	e := m.entry(collection)

	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateReady:
		return e.store, nil
	case StateFailed:
		// Sticky: never silently retried within the same process.
		return nil, errors.IndexUnavailable(string(collection), e.err)
	}

	e.state = StateBuilding
	s, err := m.loadOrBuild(ctx, collection)
	if err != nil {
		e.state = StateFailed
		e.err = err
		return nil, errors.IndexUnavailable(string(collection), err)
	}

	e.state = StateReady
	e.store = s
	return s, nil
}

// State reports the lifecycle state of a collection.
func (m *Manager) State(collection corpus.Collection) State {
	e := m.entry(collection)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == "" {
		return StateUnbuilt
	}
	return e.state
}

// WarmUp builds or loads every configured collection concurrently.
// Called at startup so the first request never pays the build cost.
func (m *Manager) WarmUp(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for collection := range m.sources {
		g.Go(func() error {
			_, err := m.GetOrBuild(ctx, collection)
			return err
		})
	}
	return g.Wait()
}

// Invalidate removes a collection's snapshot and resets its state so
// the next GetOrBuild rebuilds from source. Only the offline index
// command uses this; the serving path never rebuilds.
func (m *Manager) Invalidate(collection corpus.Collection) error {
	src, ok := m.sources[collection]
	if !ok {
		return errors.InvalidInput(fmt.Sprintf("unknown collection %q", collection))
	}

	e := m.entry(collection)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.RemoveAll(src.SnapshotDir); err != nil {
		return errors.InternalError(fmt.Sprintf("remove snapshot for %q: %v", collection, err), err)
	}

	e.state = StateUnbuilt
	e.store = nil
	e.err = nil
	return nil
}

func (m *Manager) entry(collection corpus.Collection) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[collection]
	if !ok {
		e = &entry{state: StateUnbuilt}
		m.entries[collection] = e
	}
	return e
}

// loadOrBuild decides between loading a snapshot and a fresh build.
// A cross-process file lock guards the decision so two processes
// starting together do not both embed the corpus.
func (m *Manager) loadOrBuild(ctx context.Context, collection corpus.Collection) (*store.VectorStore, error) {
	src, ok := m.sources[collection]
	if !ok {
		return nil, errors.ConfigError(fmt.Sprintf("no sources configured for collection %q", collection), nil)
	}

	if err := os.MkdirAll(src.SnapshotDir, 0o755); err != nil {
		return nil, errors.InternalError(fmt.Sprintf("create snapshot directory: %v", err), err)
	}

	lock := flock.New(filepath.Join(src.SnapshotDir, ".build.lock"))
	if err := lock.Lock(); err != nil {
		return nil, errors.InternalError(fmt.Sprintf("acquire build lock: %v", err), err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("failed to release build lock",
				slog.String("collection", string(collection)),
				slog.String("error", err.Error()))
		}
	}()

	if snapshotReady(src.SnapshotDir) {
		slog.Info("loading collection snapshot",
			slog.String("collection", string(collection)),
			slog.String("dir", src.SnapshotDir))
		return store.Load(src.SnapshotDir)
	}

	return m.build(ctx, collection, src)
}

// build normalizes the source records, embeds every document, and
// persists the resulting index before returning it.
func (m *Manager) build(ctx context.Context, collection corpus.Collection, src Sources) (*store.VectorStore, error) {
	docs, err := corpus.LoadDocuments(collection, src.SourcePath)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.New(errors.ErrCodeIndexFailed,
			fmt.Sprintf("source for collection %q holds no records", collection), nil)
	}

	slog.Info("building collection index",
		slog.String("collection", string(collection)),
		slog.Int("documents", len(docs)))

	vectors := make([][]float32, 0, len(docs))
	for start := 0; start < len(docs); start += embedBatchSize {
		end := min(start+embedBatchSize, len(docs))

		texts := make([]string, 0, end-start)
		for _, doc := range docs[start:end] {
			texts = append(texts, doc.Content)
		}

		batch, err := m.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	s, err := store.New(store.Config{Dimensions: len(vectors[0])})
	if err != nil {
		return nil, err
	}
	if err := s.Add(ctx, docs, vectors); err != nil {
		return nil, err
	}

	if err := s.Save(src.SnapshotDir); err != nil {
		return nil, err
	}

	slog.Info("collection index persisted",
		slog.String("collection", string(collection)),
		slog.String("dir", src.SnapshotDir),
		slog.Int("documents", s.Count()))

	return s, nil
}

// snapshotReady reports whether dir holds a loadable snapshot: it must
// be non-empty beyond the build lock file itself.
func snapshotReady(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Name() != ".build.lock" {
			return true
		}
	}
	return false
}
