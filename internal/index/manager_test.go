package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpsek/helpsek/internal/corpus"
	"github.com/helpsek/helpsek/internal/embed"
	"github.com/helpsek/helpsek/internal/errors"
)

// countingEmbedder counts batch calls to prove snapshots skip embedding.
type countingEmbedder struct {
	*embed.StaticEmbedder
	batchCalls atomic.Int64
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batchCalls.Add(1)
	return c.StaticEmbedder.EmbedBatch(ctx, texts)
}

func writeFormasiSource(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "formasi.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"jabatan": "Analis", "instansi": "BKN", "jumlah_kebutuhan": 5, "kualifikasi_pendidikan": ["S1"]},
		{"jabatan": "Auditor", "instansi": "BPK", "jumlah_kebutuhan": 2, "kualifikasi_pendidikan": "S1 Akuntansi"}
	]`), 0o644))
	return path
}

func newTestManager(t *testing.T) (*Manager, *countingEmbedder, string) {
	t.Helper()
	dir := t.TempDir()
	embedder := &countingEmbedder{StaticEmbedder: embed.NewStaticEmbedder()}
	m := NewManager(embedder, map[corpus.Collection]Sources{
		corpus.CollectionFormasi: {
			SourcePath:  writeFormasiSource(t, dir),
			SnapshotDir: filepath.Join(dir, "snapshots", "formasi"),
		},
	})
	return m, embedder, dir
}

func TestGetOrBuild_BuildsAndPersists(t *testing.T) {
	m, embedder, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.GetOrBuild(ctx, corpus.CollectionFormasi)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, StateReady, m.State(corpus.CollectionFormasi))
	assert.Equal(t, int64(1), embedder.batchCalls.Load())
}

func TestGetOrBuild_SecondCallReturnsSameIndex(t *testing.T) {
	m, embedder, _ := newTestManager(t)
	ctx := context.Background()

	first, err := m.GetOrBuild(ctx, corpus.CollectionFormasi)
	require.NoError(t, err)
	second, err := m.GetOrBuild(ctx, corpus.CollectionFormasi)
	require.NoError(t, err)

	assert.Same(t, first, second, "same Ready index object")
	assert.Equal(t, int64(1), embedder.batchCalls.Load(), "no re-embedding on second call")
}

func TestGetOrBuild_LoadsSnapshotOnRestart(t *testing.T) {
	m, _, dir := newTestManager(t)
	ctx := context.Background()

	_, err := m.GetOrBuild(ctx, corpus.CollectionFormasi)
	require.NoError(t, err)

	// Simulate a restart: fresh manager over the same snapshot dir.
	embedder := &countingEmbedder{StaticEmbedder: embed.NewStaticEmbedder()}
	restarted := NewManager(embedder, map[corpus.Collection]Sources{
		corpus.CollectionFormasi: {
			SourcePath:  filepath.Join(dir, "formasi.json"),
			SnapshotDir: filepath.Join(dir, "snapshots", "formasi"),
		},
	})

	s, err := restarted.GetOrBuild(ctx, corpus.CollectionFormasi)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count())
	assert.Zero(t, embedder.batchCalls.Load(), "loading a snapshot must not embed")
}

func TestGetOrBuild_ConcurrentCallersBuildOnce(t *testing.T) {
	m, embedder, _ := newTestManager(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.GetOrBuild(ctx, corpus.CollectionFormasi)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), embedder.batchCalls.Load())
}

func TestGetOrBuild_FailureIsSticky(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.json")
	m := NewManager(embed.NewStaticEmbedder(), map[corpus.Collection]Sources{
		corpus.CollectionFaq: {
			SourcePath:  missing,
			SnapshotDir: filepath.Join(dir, "snapshots", "faq"),
		},
	})
	ctx := context.Background()

	_, err := m.GetOrBuild(ctx, corpus.CollectionFaq)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIndexUnavailable, errors.GetCode(err))
	assert.Equal(t, StateFailed, m.State(corpus.CollectionFaq))

	// Creating the file afterwards must not revive the collection.
	require.NoError(t, os.WriteFile(missing, []byte(`[{"question":"q","answer":"a"}]`), 0o644))
	_, err = m.GetOrBuild(ctx, corpus.CollectionFaq)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIndexUnavailable, errors.GetCode(err))
}

func TestGetOrBuild_UnknownCollection(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.GetOrBuild(context.Background(), corpus.Collection("bogus"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}

func TestInvalidate_ForcesRebuild(t *testing.T) {
	m, embedder, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.GetOrBuild(ctx, corpus.CollectionFormasi)
	require.NoError(t, err)
	require.NoError(t, m.Invalidate(corpus.CollectionFormasi))
	assert.Equal(t, StateUnbuilt, m.State(corpus.CollectionFormasi))

	_, err = m.GetOrBuild(ctx, corpus.CollectionFormasi)
	require.NoError(t, err)
	assert.Equal(t, int64(2), embedder.batchCalls.Load(), "rebuild embeds again")
}

func TestWarmUp_BuildsAllCollections(t *testing.T) {
	dir := t.TempDir()
	faqPath := filepath.Join(dir, "faq.json")
	require.NoError(t, os.WriteFile(faqPath, []byte(`[{"question":"Apa itu CPNS?","answer":"Calon PNS."}]`), 0o644))

	m := NewManager(embed.NewStaticEmbedder(), map[corpus.Collection]Sources{
		corpus.CollectionFormasi: {
			SourcePath:  writeFormasiSource(t, dir),
			SnapshotDir: filepath.Join(dir, "snapshots", "formasi"),
		},
		corpus.CollectionFaq: {
			SourcePath:  faqPath,
			SnapshotDir: filepath.Join(dir, "snapshots", "faq"),
		},
	})

	require.NoError(t, m.WarmUp(context.Background()))
	assert.Equal(t, StateReady, m.State(corpus.CollectionFormasi))
	assert.Equal(t, StateReady, m.State(corpus.CollectionFaq))
}
