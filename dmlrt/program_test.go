package dmlrt

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// enrichmentProgram joins main.csv with reference.xml the way a generated
// mapper for the orders example does.
func enrichmentProgram(t *testing.T) *Program {
	return &Program{
		Name: "order_enrichment",
		Sources: []Source{
			{Alias: "main", Location: "testdata/main.csv", Reader: CSVReader{Delimiter: ',', HasHeader: true}},
			{Alias: "ref", Location: "testdata/reference.xml", Reader: XMLReader{RecordElement: "item"}},
		},
		Enrichment: &Enrichment{
			Query: "SELECT main.id, main.name, ref.status FROM main LEFT JOIN ref ON main.ref_id = ref.id ORDER BY main.id",
			Schema: map[string][]Column{
				"main": {{Name: "id", Type: TypeInteger}, {Name: "ref_id", Type: TypeInteger}},
				"ref":  {{Name: "id", Type: TypeInteger}},
			},
		},
		Target: Target{Writer: JSONWriter{}},
		Map: func(in *Input) (*Record, error) {
			out := NewRecord()
			out.SetPath(in.Get("", "id"), "OrderID")
			out.SetPath(in.Get("", "name"), "Customer", "Name")

			status := in.Get("", "status")
			if status == nil {
				status = "unknown"
			}

			out.SetPath(status, "Status")

			return out, nil
		},
		Logger: zaptest.NewLogger(t),
	}
}

func TestProgram_LeftJoinEnrichment(t *testing.T) {
	records, err := enrichmentProgram(t).Execute(context.Background(), map[string]string{
		"main": "testdata/main.csv",
		"ref":  "testdata/reference.xml",
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	statuses := make([]any, len(records))
	for i, r := range records {
		statuses[i] = Lookup(r, "Status")
	}

	assert.Equal(t, []any{"active", "inactive", "unknown"}, statuses)
	assert.Equal(t, int64(3), Lookup(records[2], "OrderID"))
	assert.Equal(t, "Carol", Lookup(records[2], "Customer", "Name"))
}

func TestProgram_RunWritesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, enrichmentProgram(t).Run(context.Background(), []string{
		"main", "testdata/main.csv", "ref", "testdata/reference.xml", out,
	}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Status": "unknown"`)
}

func TestProgram_PositionalSources(t *testing.T) {
	p := &Program{
		Name: "positional",
		Sources: []Source{
			{Alias: "main", Reader: CSVReader{HasHeader: true}},
			{Alias: "ref", Reader: XMLReader{}},
		},
		Map: func(in *Input) (*Record, error) {
			out := NewRecord()
			out.SetPath(in.Get("", "name"), "Name")
			out.SetPath(in.Get("ref", "status"), "Status")

			return out, nil
		},
	}

	records, err := p.Execute(context.Background(), map[string]string{
		"main": "testdata/main.csv",
		"ref":  "testdata/reference.xml",
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "active", Lookup(records[0], "Status"))
	assert.Nil(t, Lookup(records[2], "Status"))
}

func TestProgram_AggregatesOnly(t *testing.T) {
	p := &Program{
		Name:    "totals",
		Sources: []Source{{Alias: "main", Reader: CSVReader{HasHeader: true}}},
		Aggregate: func(inputs []*Input) (*Record, error) {
			agg := NewRecord()
			total := Sum()

			for _, in := range inputs {
				v, err := ToInteger(in.Get("", "ref_id"))
				if err != nil {
					return nil, in.Fail("Total", "AS integer", err)
				}

				if err := total.Add(v); err != nil {
					return nil, in.Fail("Total", "sum", err)
				}
			}

			agg.SetPath(total.Result(), "Total")

			return agg, nil
		},
	}

	records, err := p.Execute(context.Background(), map[string]string{"main": "testdata/main.csv"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(129), Lookup(records[0], "Total"))
}

func TestProgram_MappingErrorNamesRecord(t *testing.T) {
	p := &Program{
		Name:    "strict",
		Sources: []Source{{Alias: "main", Reader: CSVReader{HasHeader: true}}},
		Map: func(in *Input) (*Record, error) {
			v, err := ToInteger(in.Get("", "name"))
			if err != nil {
				return nil, in.Fail("Id", "AS integer", err)
			}

			out := NewRecord()
			out.SetPath(v, "Id")

			return out, nil
		},
	}

	_, err := p.Execute(context.Background(), map[string]string{"main": "testdata/main.csv"})

	var mappingErr *MappingError
	require.True(t, errors.As(err, &mappingErr))
	assert.Equal(t, 1, mappingErr.Record)
	assert.Equal(t, `record 1: field Id: AS integer: "Alice" is not an integer`, err.Error())
}

func TestProgram_ParseArgs(t *testing.T) {
	single := &Program{
		Sources: []Source{{Alias: "main", Location: "in.csv"}},
		Target:  Target{Location: "out.json"},
	}

	tests := []struct {
		name      string
		program   *Program
		args      []string
		locations map[string]string
		output    string
		wantErr   bool
	}{
		{"configured", single, nil, map[string]string{"main": "in.csv"}, "out.json", false},
		{"input only", single, []string{"a.csv"}, map[string]string{"main": "a.csv"}, "out.json", false},
		{"input and output", single, []string{"a.csv", "b.json"}, map[string]string{"main": "a.csv"}, "b.json", false},
		{"alias form", single, []string{"main", "a.csv", "b.json"}, map[string]string{"main": "a.csv"}, "b.json", false},
		{
			"pairs", enrichmentProgram(t), []string{"ref", "r.xml", "o.json"},
			map[string]string{"main": "testdata/main.csv", "ref": "r.xml"}, "o.json", false,
		},
		{"unknown alias", enrichmentProgram(t), []string{"other", "x", "o.json"}, nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locations, output, err := tt.program.ParseArgs(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.locations, locations)
			assert.Equal(t, tt.output, output)
		})
	}
}

func TestProgram_MainReportsErrors(t *testing.T) {
	p := &Program{Name: "broken", Sources: []Source{{Alias: "main", Reader: CSVReader{}}}}

	var stderr bytes.Buffer

	code := p.main(context.Background(), []string{"missing.csv", "out.json"}, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "broken: source main")
}
