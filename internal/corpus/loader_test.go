package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpsek/helpsek/internal/errors"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDocuments_Array(t *testing.T) {
	path := writeSource(t, `[
		{"jabatan": "Analis", "instansi": "BKN"},
		{"Jabatan": "Auditor", "Instansi": "BPK"}
	]`)

	docs, err := LoadDocuments(CollectionFormasi, path)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "formasi-0000", docs[0].ID)
	assert.Equal(t, "Analis", docs[0].Metadata[MetaJabatan])
	assert.Equal(t, "Auditor", docs[1].Metadata[MetaJabatan])
}

func TestLoadDocuments_SingleObject(t *testing.T) {
	path := writeSource(t, `{"question": "Apa itu ASN?", "answer": "Aparatur Sipil Negara."}`)

	docs, err := LoadDocuments(CollectionFaq, path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].Content, "Pertanyaan: Apa itu ASN?")
}

func TestLoadDocuments_MissingFile(t *testing.T) {
	_, err := LoadDocuments(CollectionFormasi, filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSourceNotFound, errors.GetCode(err))
}

func TestLoadDocuments_InvalidJSON(t *testing.T) {
	path := writeSource(t, `{not json`)
	_, err := LoadDocuments(CollectionFaq, path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRecordMalformed, errors.GetCode(err))
}

func TestLoadDocuments_NonObjectElement(t *testing.T) {
	path := writeSource(t, `["just a string"]`)
	_, err := LoadDocuments(CollectionFormasi, path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRecordMalformed, errors.GetCode(err))
}
