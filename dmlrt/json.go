package dmlrt

import (
	"bytes"
	"context"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// JSONReader reads an array of objects, the array under RootElement (a path
// separated by '/' or '.'), or a single object as one record. Object keys
// are sorted since decoded maps carry no order.
type JSONReader struct {
	RootElement string
}

func (j JSONReader) Read(_ context.Context, location string) ([]*Record, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v", location)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %v", location)
	}

	value := fromJSON(doc)
	if j.RootElement != "" {
		value = Lookup(value, strings.FieldsFunc(j.RootElement, isPathSep)...)
	}

	var records []*Record

	for _, item := range Items(value) {
		rec, ok := item.(*Record)
		if !ok {
			return nil, errors.Errorf("%v: expected objects, found %T", location, item)
		}

		records = append(records, rec)
	}

	return records, nil
}

func isPathSep(r rune) bool {
	return r == '/' || r == '.'
}

func fromJSON(v any) any {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		rec := NewRecord()
		for _, k := range keys {
			rec.Set(k, fromJSON(val[k]))
		}

		return rec
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromJSON(item)
		}

		return out
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}

		f, _ := val.Float64()

		return f
	default:
		return val
	}
}

// JSONWriter writes the records as an indented array.
type JSONWriter struct{}

func (JSONWriter) Write(_ context.Context, location string, records []*Record) error {
	if records == nil {
		records = []*Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode json")
	}

	return writeFile(location, append(data, '\n'))
}
