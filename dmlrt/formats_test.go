package dmlrt

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(kv ...any) *Record {
	rec := NewRecord()
	for i := 0; i < len(kv); i += 2 {
		rec.Set(kv[i].(string), kv[i+1])
	}

	return rec
}

func TestCSVReader(t *testing.T) {
	records, err := CSVReader{Delimiter: ',', HasHeader: true}.Read(context.Background(), "testdata/main.csv")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"id", "name", "ref_id"}, records[0].Keys())
	assert.Equal(t, "Alice", Lookup(records[0], "name"))
	assert.Equal(t, "99", Lookup(records[2], "ref_id"))
}

func TestCSVReader_NoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("a;b\nc;d\n"), 0o644))

	records, err := CSVReader{Delimiter: ';'}.Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"col_0", "col_1"}, records[0].Keys())
	assert.Equal(t, "d", Lookup(records[1], "col_1"))
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.csv")
	records := []*Record{
		record("id", int64(1), "name", "Alice"),
		record("id", int64(2), "total", 2.5),
	}

	require.NoError(t, CSVWriter{Delimiter: ',', HasHeader: true}.Write(context.Background(), path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name,total\n1,Alice,\n2,,2.5\n", string(data))
}

func TestXMLReader(t *testing.T) {
	records, err := XMLReader{RecordElement: "Order"}.Read(context.Background(), "testdata/orders.xml")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "A1", Lookup(first, "@id"))
	assert.Equal(t, "Alice", Lookup(first, "Customer", "Name"))
	assert.Len(t, Items(Lookup(first, "Line")), 2)
	assert.Equal(t, "Y", Lookup(first, "Line", "1", "Sku"))

	assert.Len(t, Items(Lookup(records[1], "Line")), 1)
	assert.Equal(t, "5", Lookup(records[1], "Line", "Qty"))
}

func TestXMLReader_RootChildren(t *testing.T) {
	records, err := XMLReader{}.Read(context.Background(), "testdata/reference.xml")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "inactive", Lookup(records[1], "status"))
}

func TestXMLWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xml")

	customer := record("Name", "Alice")
	records := []*Record{
		record("@id", "A1", "Customer", customer, "Tag", []any{"x", "y"}),
	}

	w := XMLWriter{RootElement: "Orders", RecordElement: "Order"}
	require.NoError(t, w.Write(context.Background(), path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<Orders>
  <Order id="A1">
    <Customer>
      <Name>Alice</Name>
    </Customer>
    <Tag>x</Tag>
    <Tag>y</Tag>
  </Order>
</Orders>
`
	assert.Equal(t, want, string(data))

	back, err := XMLReader{RecordElement: "Order"}.Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "Alice", Lookup(back[0], "Customer", "Name"))
}

func TestJSONReader(t *testing.T) {
	records, err := JSONReader{RootElement: "data/orders"}.Read(context.Background(), "testdata/orders.json")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"customer", "id", "tags", "total"}, records[0].Keys())
	assert.Equal(t, int64(1), Lookup(records[0], "id"))
	assert.Equal(t, 12.5, Lookup(records[0], "total"))
	assert.Equal(t, "Bob", Lookup(records[1], "customer", "name"))
	assert.Equal(t, int64(3), Lookup(records[1], "total"))
}

func TestJSONWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, JSONWriter{}.Write(context.Background(), path, []*Record{
		record("b", int64(1), "a", record("x", nil)),
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"b":1,"a":{"x":null}}]`, string(data))
}

func TestEDIReader_X12(t *testing.T) {
	records, err := EDIReader{Version: X12}.Read(context.Background(), "testdata/orders.edi")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, []string{"ST", "BEG", "N1", "PO1", "SE"}, first.Keys())
	assert.Equal(t, "PO1001", Lookup(first, "BEG", "03"))
	assert.Equal(t, "Buyer One", Lookup(first, "N1", "02"))
	assert.Equal(t, "Ship To One", Lookup(first, "N1", "1", "02"))
	assert.Equal(t, "PO1002", Lookup(records[1], "BEG", "03"))
}

func TestEDIReader_RepeatedSegments(t *testing.T) {
	records := EDIReader{}.parse("ST*850*0001~PO1*1*2*EA~PO1*2*4*EA~PO1*3*6*EA~SE*5*0001~")
	require.Len(t, records, 1)

	qty, err := ToInteger(Lookup(records[0], "PO1", "02"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), qty)

	assert.Equal(t, "6", Lookup(records[0], "PO1", "2", "02"))
	assert.Len(t, Items(Lookup(records[0], "PO1")), 3)
}

func TestEDIReader_EDIFACT(t *testing.T) {
	text := "UNA:+.? 'UNB+UNOA:1+SENDER+RECEIVER'UNH+1+ORDERS:D:96A:UN'BGM+220+PO1'UNT+3+1'UNZ+1+1'"

	records := EDIReader{Version: EDIFACT, SegmentDelimiter: "'"}.parse(text)
	require.Len(t, records, 1)
	assert.Equal(t, "PO1", Lookup(records[0], "BGM", "02"))
}

func TestEDIReader_NoTransactionSets(t *testing.T) {
	records := EDIReader{}.parse("AA*1~BB*2~AA*3~")
	require.Len(t, records, 1)
	assert.Equal(t, "3", Lookup(records[0], "AA", "1", "01"))
}

func TestEDIWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.edi")

	records := []*Record{
		record(
			"BEG", record("01", "00", "02", "SA"),
			"N1", []any{record("01", "BY"), record("01", "ST")},
			"REF", "X",
		),
	}

	require.NoError(t, EDIWriter{Version: X12}.Write(context.Background(), path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BEG*00*SA~\nN1*BY~\nN1*ST~\nREF*X~\n", string(data))
}
