package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/helpsek/helpsek/internal/errors"
)

// LoadDocuments reads the source JSON file for a collection and
// normalizes every record into a Document. The file may hold either an
// array of records or a single record object.
func LoadDocuments(collection Collection, path string) ([]*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeSourceNotFound,
			fmt.Sprintf("read source for collection %q: %v", collection, err), err)
	}

	records, err := decodeRecords(data)
	if err != nil {
		return nil, errors.MalformedRecord(
			fmt.Sprintf("source for collection %q is not valid JSON", collection), err)
	}

	docs := make([]*Document, 0, len(records))
	for idx, raw := range records {
		var doc *Document
		switch collection {
		case CollectionFormasi:
			doc, err = NormalizeFormasi(raw, idx)
		case CollectionFaq:
			doc, err = NormalizeFaq(raw, idx)
		default:
			return nil, errors.InternalError(fmt.Sprintf("unknown collection %q", collection), nil)
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// decodeRecords accepts either a JSON array of records or a single
// object, mirroring the tolerance of the source exports.
func decodeRecords(data []byte) ([]any, error) {
	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var single any
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []any{single}, nil
}
