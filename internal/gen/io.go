package gen

import (
	"fmt"
	"strconv"
	"strings"

	"dml-mapper/internal/plan"
)

// sourceSpec is a rendered dmlrt.Source literal.
type sourceSpec struct {
	Alias    string
	Location string
	Codec    string
}

// enrichmentSpec is a rendered dmlrt.Enrichment literal.
type enrichmentSpec struct {
	Query  string
	Tables []tableSpec
}

type tableSpec struct {
	Alias   string
	Columns []columnSpec
}

type columnSpec struct {
	Name string
	Type string
}

type field struct {
	name  string
	value string
}

func stringField(name, v string) field {
	if v == "" {
		return field{}
	}

	return field{name: name, value: strconv.Quote(v)}
}

// composite renders a runtime struct literal, skipping zero fields.
func composite(typ string, fields ...field) string {
	parts := make([]string, 0, len(fields))

	for _, f := range fields {
		if f.name != "" {
			parts = append(parts, f.name+": "+f.value)
		}
	}

	return fmt.Sprintf("%s.%s{%s}", rt, typ, strings.Join(parts, ", "))
}

func csvFields(opt plan.CSVOptions) []field {
	fields := []field{{name: "HasHeader", value: strconv.FormatBool(opt.HasHeader)}}
	if opt.Delimiter != 0 {
		fields = append([]field{{name: "Delimiter", value: strconv.QuoteRune(opt.Delimiter)}}, fields...)
	}

	return fields
}

// location returns the configured file or connection string.
func location(o plan.Options) string {
	if db, ok := o.(plan.DBOptions); ok {
		return db.ConnectionString
	}

	return plan.File(o)
}

func readerCodec(o plan.Options) (string, error) {
	switch opt := o.(type) {
	case plan.CSVOptions:
		return composite("CSVReader", csvFields(opt)...), nil
	case plan.XMLOptions:
		return composite("XMLReader",
			stringField("RecordElement", opt.RootElement),
			stringField("Namespace", opt.Namespace)), nil
	case plan.DBOptions:
		return composite("DBReader",
			stringField("Driver", opt.Driver),
			stringField("Query", opt.Query),
			stringField("Table", opt.Table)), nil
	case plan.EDIOptions:
		return composite("EDIReader",
			stringField("Version", opt.Version),
			stringField("SegmentDelimiter", opt.SegmentDelimiter),
			stringField("ElementDelimiter", opt.ElementDelimiter)), nil
	case plan.JSONOptions:
		return composite("JSONReader", stringField("RootElement", opt.RootElement)), nil
	default:
		return "", invariant("no reader for options %T", o)
	}
}

func writerCodec(o plan.Options) (string, error) {
	switch opt := o.(type) {
	case plan.CSVOptions:
		return composite("CSVWriter", csvFields(opt)...), nil
	case plan.XMLOptions:
		return composite("XMLWriter",
			stringField("RootElement", opt.RootElement),
			stringField("RecordElement", opt.RecordElement),
			stringField("Namespace", opt.Namespace)), nil
	case plan.DBOptions:
		return composite("DBWriter",
			stringField("Driver", opt.Driver),
			stringField("Table", opt.Table),
			stringField("Mode", opt.Mode),
			stringField("Key", opt.Key)), nil
	case plan.EDIOptions:
		return composite("EDIWriter",
			stringField("Version", opt.Version),
			stringField("SegmentDelimiter", opt.SegmentDelimiter),
			stringField("ElementDelimiter", opt.ElementDelimiter)), nil
	case plan.JSONOptions:
		return composite("JSONWriter"), nil
	default:
		return "", invariant("no writer for options %T", o)
	}
}

func sourceSpecs(vm *plan.ValidatedMapping) ([]sourceSpec, error) {
	specs := make([]sourceSpec, 0, len(vm.Sources))

	for _, s := range vm.Sources {
		codec, err := readerCodec(s.Options)
		if err != nil {
			return nil, err
		}

		specs = append(specs, sourceSpec{Alias: s.Alias, Location: location(s.Options), Codec: codec})
	}

	return specs, nil
}

func targetSpec(vm *plan.ValidatedMapping) (sourceSpec, error) {
	codec, err := writerCodec(vm.Target.Options)
	if err != nil {
		return sourceSpec{}, err
	}

	return sourceSpec{Location: location(vm.Target.Options), Codec: codec}, nil
}

// enrichment renders the load schema in table order. Tables without declared
// columns are left out; the store types their columns as TEXT.
func enrichment(e *plan.Enrichment) *enrichmentSpec {
	if e == nil {
		return nil
	}

	es := &enrichmentSpec{Query: e.Query}

	for _, alias := range e.Tables {
		cols := e.TableSchema(alias)
		if len(cols) == 0 {
			continue
		}

		table := tableSpec{Alias: alias}
		for _, c := range cols {
			table.Columns = append(table.Columns, columnSpec{Name: c.Name, Type: runtimeTypes[c.Type]})
		}

		es.Tables = append(es.Tables, table)
	}

	return es
}
