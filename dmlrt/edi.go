package dmlrt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// EDI dialects.
const (
	X12     = "X12"
	EDIFACT = "EDIFACT"
)

// EDIReader splits an interchange into one record per transaction set
// (ST..SE for X12, UNH..UNT for EDIFACT), or one record for the whole
// interchange when it has no sets. Each segment id maps to a record of its
// elements keyed "01", "02", ...; repeated segments become lists.
type EDIReader struct {
	Version          string
	SegmentDelimiter string
	ElementDelimiter string
}

func (e EDIReader) Read(_ context.Context, location string) ([]*Record, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v", location)
	}

	return e.parse(string(data)), nil
}

func (e EDIReader) parse(text string) []*Record {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "UNA") && len(text) >= 9 {
		text = text[9:]
	}

	open, closing := "ST", "SE"
	if strings.EqualFold(e.Version, EDIFACT) {
		open, closing = "UNH", "UNT"
	}

	var (
		records []*Record
		current *Record
		all     = NewRecord()
	)

	for _, raw := range strings.Split(text, orDefault(e.SegmentDelimiter, "~")) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		elements := strings.Split(raw, e.elementDelimiter())
		id := elements[0]
		segment := NewRecord()

		for i, el := range elements[1:] {
			segment.Set(fmt.Sprintf("%02d", i+1), el)
		}

		if id == open {
			current = NewRecord()
		}

		addSegment(all, id, segment)

		if current != nil {
			addSegment(current, id, segment)
		}

		if id == closing && current != nil {
			records = append(records, current)
			current = nil
		}
	}

	if current != nil {
		records = append(records, current)
	}

	if len(records) == 0 && all.Len() > 0 {
		records = append(records, all)
	}

	return records
}

func (e EDIReader) elementDelimiter() string {
	if e.ElementDelimiter != "" {
		return e.ElementDelimiter
	}

	if strings.EqualFold(e.Version, EDIFACT) {
		return "+"
	}

	return "*"
}

func addSegment(rec *Record, id string, segment *Record) {
	existing, ok := rec.Get(id)
	if !ok {
		rec.Set(id, segment)
		return
	}

	if list, isList := existing.([]any); isList {
		rec.Set(id, append(list, segment))
	} else {
		rec.Set(id, []any{existing, segment})
	}
}

// EDIWriter writes every top-level key of a record as a segment: record
// values as their elements in order, lists as repeated segments and scalars
// as a single element.
type EDIWriter struct {
	Version          string
	SegmentDelimiter string
	ElementDelimiter string
}

func (e EDIWriter) Write(_ context.Context, location string, records []*Record) error {
	var buf bytes.Buffer

	element := EDIReader{Version: e.Version, ElementDelimiter: e.ElementDelimiter}.elementDelimiter()
	segment := orDefault(e.SegmentDelimiter, "~")

	for _, rec := range records {
		for _, id := range rec.Keys() {
			v, _ := rec.Get(id)

			for _, item := range Items(v) {
				buf.WriteString(id)

				for _, el := range segmentElements(item) {
					buf.WriteString(element)
					buf.WriteString(el)
				}

				buf.WriteString(segment)
				buf.WriteByte('\n')
			}
		}
	}

	return writeFile(location, buf.Bytes())
}

func segmentElements(v any) []string {
	rec, ok := v.(*Record)
	if !ok {
		return []string{FormatValue(v)}
	}

	out := make([]string, 0, rec.Len())
	for _, k := range rec.Keys() {
		el, _ := rec.Get(k)
		out = append(out, FormatValue(el))
	}

	return out
}
