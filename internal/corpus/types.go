// Package corpus normalizes heterogeneous source records into the
// canonical documents the collection indexes are built from.
package corpus

// Collection identifies one of the two independent document sets.
type Collection string

const (
	// CollectionFormasi holds job-vacancy records.
	CollectionFormasi Collection = "formasi"
	// CollectionFaq holds FAQ/regulation records.
	CollectionFaq Collection = "faq"
)

// Valid reports whether c names a known collection.
func (c Collection) Valid() bool {
	return c == CollectionFormasi || c == CollectionFaq
}

// Metadata keys shared by both collections.
const (
	MetaTipe       = "tipe"
	MetaIndex      = "index"
	MetaJabatan    = "jabatan"
	MetaInstansi   = "instansi"
	MetaPenempatan = "penempatan"
	MetaMinGaji    = "min_gaji"
	MetaMaxGaji    = "max_gaji"
	MetaJumlah     = "jumlah_kebutuhan"
	MetaSumber     = "sumber"
	MetaRegulasi   = "regulasi"
)

// Document is the canonical unit stored in a collection index.
// It is immutable once created.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// FormasiRecord is a normalized job-vacancy record.
// Missing optional fields carry documented defaults, never nil strings.
type FormasiRecord struct {
	Jabatan     string
	Instansi    string
	UnitKerja   string
	Penempatan  string
	Jenis       string
	Disabilitas bool
	// MinGaji and MaxGaji are in millions of rupiah. Nil means the
	// source did not state a parseable bound.
	MinGaji    *float64
	MaxGaji    *float64
	Jumlah     int
	Pendidikan []string
}

// FaqRecord is a normalized FAQ/regulation record.
type FaqRecord struct {
	Pertanyaan string
	Jawaban    string
	Regulasi   string
	Sumber     string
}
