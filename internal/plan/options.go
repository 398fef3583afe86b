package plan

import "dml-mapper/internal/mapping"

// Options is the closed set of per-format configuration records.
type Options interface {
	Format() mapping.Format
	options()
}

// CSVOptions configures a CSV source or target.
type CSVOptions struct {
	File      string
	Delimiter rune
	HasHeader bool
}

// XMLOptions configures an XML source or target. For sources RootElement is
// the repeating record element; empty means every child of the document root.
// For targets RootElement wraps RecordElement items.
type XMLOptions struct {
	File          string
	RootElement   string
	RecordElement string
	Namespace     string
}

// DBOptions configures a DB source or target.
type DBOptions struct {
	Driver           string
	ConnectionString string
	Query            string
	Table            string
	Mode             string
	Key              string
}

// EDIOptions configures an EDI source or target.
type EDIOptions struct {
	File             string
	Version          string
	SegmentDelimiter string
	ElementDelimiter string
}

// JSONOptions configures a JSON source or target. RootElement selects the
// array inside a top-level object.
type JSONOptions struct {
	File        string
	RootElement string
}

func (CSVOptions) Format() mapping.Format  { return mapping.FormatCSV }
func (XMLOptions) Format() mapping.Format  { return mapping.FormatXML }
func (DBOptions) Format() mapping.Format   { return mapping.FormatDB }
func (EDIOptions) Format() mapping.Format  { return mapping.FormatEDI }
func (JSONOptions) Format() mapping.Format { return mapping.FormatJSON }

func (CSVOptions) options()  {}
func (XMLOptions) options()  {}
func (DBOptions) options()   {}
func (EDIOptions) options()  {}
func (JSONOptions) options() {}

// DB drivers, target modes and EDI versions accepted in configuration.
var (
	DBDrivers   = []string{"postgres", "mysql", "sqlite"}
	DBModes     = []string{"insert", "update", "upsert"}
	EDIVersions = []string{"X12", "EDIFACT"}
)

// File returns the configured file path of file-based options.
func File(o Options) string {
	switch opt := o.(type) {
	case CSVOptions:
		return opt.File
	case XMLOptions:
		return opt.File
	case EDIOptions:
		return opt.File
	case JSONOptions:
		return opt.File
	default:
		return ""
	}
}
