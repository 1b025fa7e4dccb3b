package corpus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/helpsek/helpsek/internal/errors"
)

// Defaults substituted for absent optional fields.
const (
	DefaultNotStated = "Tidak disebutkan"
	DefaultDash      = "-"
)

// Ordered alias tables. Source files mix casings and spellings for the
// same semantic field; the first present non-null value wins.
var (
	aliasJabatan     = []string{"jabatan", "Jabatan"}
	aliasInstansi    = []string{"instansi", "Instansi"}
	aliasPenempatan  = []string{"penempatan", "Penempatan"}
	aliasUnitKerja   = []string{"unit_kerja", "Unit Kerja", "unit kerja"}
	aliasJenis       = []string{"jenis_formasi", "Jenis Formasi"}
	aliasDisabilitas = []string{"khusus_disabilitas", "Khusus Disabilitas"}
	aliasPenghasilan = []string{"penghasilan", "penghasilan_juta"}
	aliasJumlah      = []string{"jumlah_kebutuhan", "Jumlah Kebutuhan"}
	aliasPendidikan  = []string{"kualifikasi_pendidikan", "Kualifikasi Pendidikan"}

	aliasPertanyaan = []string{"Pertanyaan (FAQ)", "Pertanyaan", "question"}
	aliasJawaban    = []string{"Jawaban", "answer"}
	aliasRegulasi   = []string{"Regulasi yang Menjadi Dasar", "Regulasi"}
	aliasSumber     = []string{"Sumber", "sumber"}
)

// NormalizeFormasi turns a raw vacancy record into a canonical Document.
// Missing optional fields get documented defaults; only a non-object
// input is an error.
func NormalizeFormasi(raw any, idx int) (*Document, error) {
	rec, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.MalformedRecord(fmt.Sprintf("formasi record %d is not a JSON object", idx), nil)
	}

	r := FormasiRecord{
		Jabatan:     stringField(rec, aliasJabatan, DefaultNotStated),
		Instansi:    stringField(rec, aliasInstansi, DefaultNotStated),
		Penempatan:  stringField(rec, aliasPenempatan, DefaultNotStated),
		UnitKerja:   stringField(rec, aliasUnitKerja, ""),
		Jenis:       stringField(rec, aliasJenis, ""),
		Disabilitas: boolField(rec, aliasDisabilitas),
		Jumlah:      intField(rec, aliasJumlah),
		Pendidikan:  stringListField(rec, aliasPendidikan),
	}
	r.MinGaji, r.MaxGaji = salaryField(rec, aliasPenghasilan)

	disabilitas := "Bukan formasi khusus disabilitas"
	if r.Disabilitas {
		disabilitas = "Formasi khusus disabilitas"
	}

	pendidikan := DefaultDash
	if len(r.Pendidikan) > 0 {
		pendidikan = strings.Join(r.Pendidikan, ", ")
	}

	lines := []string{
		"[FORMASI ASN]",
		"Jabatan: " + r.Jabatan,
		"Instansi: " + r.Instansi,
		"Unit Kerja: " + r.UnitKerja,
		"Penempatan: " + r.Penempatan,
		"Jenis Formasi: " + r.Jenis,
		disabilitas,
		fmt.Sprintf("Gaji (juta): %s - %s", formatGaji(r.MinGaji), formatGaji(r.MaxGaji)),
		fmt.Sprintf("Jumlah Kebutuhan: %d", r.Jumlah),
		"Kualifikasi Pendidikan: " + pendidikan,
	}

	return &Document{
		ID:      fmt.Sprintf("%s-%04d", CollectionFormasi, idx),
		Content: strings.Join(lines, "\n"),
		Metadata: map[string]string{
			MetaTipe:       string(CollectionFormasi),
			MetaIndex:      strconv.Itoa(idx),
			MetaJabatan:    r.Jabatan,
			MetaInstansi:   r.Instansi,
			MetaPenempatan: r.Penempatan,
			MetaMinGaji:    formatGaji(r.MinGaji),
			MetaMaxGaji:    formatGaji(r.MaxGaji),
			MetaJumlah:     strconv.Itoa(r.Jumlah),
		},
	}, nil
}

// NormalizeFaq turns a raw FAQ/regulation record into a canonical Document.
func NormalizeFaq(raw any, idx int) (*Document, error) {
	rec, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.MalformedRecord(fmt.Sprintf("faq record %d is not a JSON object", idx), nil)
	}

	r := FaqRecord{
		Pertanyaan: stringField(rec, aliasPertanyaan, DefaultNotStated),
		Jawaban:    stringField(rec, aliasJawaban, DefaultDash),
		Regulasi:   stringField(rec, aliasRegulasi, DefaultDash),
		Sumber:     stringField(rec, aliasSumber, DefaultDash),
	}

	lines := []string{
		"[FAQ ASN]",
		"Pertanyaan: " + r.Pertanyaan,
		"Jawaban: " + r.Jawaban,
		"Regulasi: " + r.Regulasi,
		"Sumber: " + r.Sumber,
	}

	return &Document{
		ID:      fmt.Sprintf("%s-%04d", CollectionFaq, idx),
		Content: strings.Join(lines, "\n"),
		Metadata: map[string]string{
			MetaTipe:     string(CollectionFaq),
			MetaIndex:    strconv.Itoa(idx),
			MetaSumber:   r.Sumber,
			MetaRegulasi: r.Regulasi,
		},
	}, nil
}

// stringField resolves the first present non-empty alias as a string.
func stringField(rec map[string]any, aliases []string, def string) string {
	for _, key := range aliases {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return def
}

// boolField resolves the first present alias as a bool. Absent or
// non-boolean values are false.
func boolField(rec map[string]any, aliases []string) bool {
	for _, key := range aliases {
		if v, ok := rec[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

// intField resolves the first present alias as an integer, accepting
// JSON numbers and digit strings.
func intField(rec map[string]any, aliases []string) int {
	for _, key := range aliases {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n)
		case string:
			if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
				return parsed
			}
		}
	}
	return 0
}

// stringListField resolves a field that may be a list of strings or a
// single string (treated as a one-element list).
func stringListField(rec map[string]any, aliases []string) []string {
	for _, key := range aliases {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		switch list := v.(type) {
		case string:
			if list != "" {
				return []string{list}
			}
		case []any:
			out := make([]string, 0, len(list))
			for _, item := range list {
				if s, ok := item.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// salaryField resolves the salary bounds. The source may carry a
// structured {min,max} object or a free-text range like "7 - 11".
// Any parse failure leaves both bounds unknown rather than failing
// the record.
func salaryField(rec map[string]any, aliases []string) (min, max *float64) {
	for _, key := range aliases {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		switch p := v.(type) {
		case map[string]any:
			return numberValue(p["min"]), numberValue(p["max"])
		case string:
			parts := strings.Split(p, "-")
			if len(parts) != 2 {
				return nil, nil
			}
			lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if errLo != nil || errHi != nil {
				return nil, nil
			}
			return &lo, &hi
		}
	}
	return nil, nil
}

func numberValue(v any) *float64 {
	if n, ok := v.(float64); ok {
		return &n
	}
	return nil
}

func formatGaji(v *float64) string {
	if v == nil {
		return DefaultDash
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
