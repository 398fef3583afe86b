package dmlrt

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// CSVReader reads delimited text. Without a header, columns are named
// col_0, col_1, ...
type CSVReader struct {
	Delimiter rune
	HasHeader bool
}

func (c CSVReader) Read(_ context.Context, location string) ([]*Record, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %v", location)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = c.delimiter()
	r.FieldsPerRecord = -1

	var (
		header  []string
		records []*Record
	)

	for line := 0; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %v", location)
		}

		if line == 0 && c.HasHeader {
			header = row
			continue
		}

		rec := NewRecord()

		for i, v := range row {
			rec.Set(columnName(header, i), v)
		}

		records = append(records, rec)
	}

	return records, nil
}

func (c CSVReader) delimiter() rune {
	if c.Delimiter == 0 {
		return ','
	}

	return c.Delimiter
}

func columnName(header []string, i int) string {
	if i < len(header) && header[i] != "" {
		return header[i]
	}

	return "col_" + strconv.Itoa(i)
}

// CSVWriter writes one row per record. Columns are the union of the record
// keys; nested values are written as JSON.
type CSVWriter struct {
	Delimiter rune
	HasHeader bool
}

func (c CSVWriter) Write(_ context.Context, location string, records []*Record) error {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	w.Comma = CSVReader{Delimiter: c.Delimiter}.delimiter()

	cols := columnsOf(records)
	if c.HasHeader {
		if err := w.Write(cols); err != nil {
			return errors.Wrap(err, "failed to write header")
		}
	}

	row := make([]string, len(cols))

	for _, rec := range records {
		for i, col := range cols {
			v, _ := rec.Get(col)
			row[i] = FormatValue(v)
		}

		if err := w.Write(row); err != nil {
			return errors.Wrap(err, "failed to write row")
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return errors.Wrap(err, "failed to write csv")
	}

	return writeFile(location, buf.Bytes())
}
