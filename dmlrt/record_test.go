package dmlrt

import (
	"strconv"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_KeepsInsertionOrder(t *testing.T) {
	rec := NewRecord()
	rec.Set("b", int64(1))
	rec.Set("a", "x")
	rec.Set("b", int64(2))

	assert.Equal(t, []string{"b", "a"}, rec.Keys())

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2,"a":"x"}`, string(data))
	assert.Equal(t, `{"b":2,"a":"x"}`, string(data))
}

func TestRecord_SetPathAndAppendPath(t *testing.T) {
	rec := NewRecord()
	rec.SetPath("Alice", "Customer", "Name")
	rec.SetPath(int64(7), "Id")
	rec.AppendPath("x", "Lines")
	rec.AppendPath("y", "Lines")

	assert.Equal(t, "Alice", Lookup(rec, "Customer", "Name"))
	assert.Equal(t, []any{"x", "y"}, Lookup(rec, "Lines"))
	assert.Equal(t, []string{"Customer", "Id", "Lines"}, rec.Keys())
}

func TestLookup(t *testing.T) {
	first := NewRecord()
	first.Set("02", "Buyer")

	second := NewRecord()
	second.Set("02", "Ship To")

	lines := make([]any, 3)
	for i := range lines {
		line := NewRecord()
		line.Set("01", strconv.Itoa(i+1))
		line.Set("02", strconv.Itoa((i+1)*10))
		lines[i] = line
	}

	rec := NewRecord()
	rec.Set("N1", []any{first, second})
	rec.Set("PO1", lines)
	rec.Set("name", "x")

	tests := []struct {
		name string
		path []string
		want any
	}{
		{"scalar", []string{"name"}, "x"},
		{"list uses first element", []string{"N1", "02"}, "Buyer"},
		{"numeric segment indexes list", []string{"N1", "1", "02"}, "Ship To"},
		{"index out of range", []string{"N1", "5", "02"}, nil},
		{"element key wins over index", []string{"PO1", "02"}, "10"},
		{"element key on three repeats", []string{"PO1", "01"}, "1"},
		{"index then element key", []string{"PO1", "2", "02"}, "30"},
		{"missing key", []string{"missing"}, nil},
		{"through scalar", []string{"name", "x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(rec, tt.path...))
		})
	}
}

func TestItems(t *testing.T) {
	assert.Nil(t, Items(nil))
	assert.Equal(t, []any{"a"}, Items("a"))
	assert.Equal(t, []any{"a", "b"}, Items([]any{"a", "b"}))
}
