package mapping

import "strings"

//go:generate go tool stringer -type=Format -trimprefix=Format -output=format_string.go

// Format is the closed set of data formats a source or target may use.
type Format int

const (
	FormatUnknown Format = iota
	FormatXML
	FormatCSV
	FormatDB
	FormatEDI
	FormatJSON
)

// Formats lists every known format in declaration order.
var Formats = []Format{FormatXML, FormatCSV, FormatDB, FormatEDI, FormatJSON}

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(name string) (Format, bool) {
	for _, f := range Formats {
		if strings.EqualFold(f.String(), name) {
			return f, true
		}
	}

	return FormatUnknown, false
}

// IsFileBased reports whether the format is read from or written to a file.
func (f Format) IsFileBased() bool {
	return f != FormatDB && f != FormatUnknown
}
