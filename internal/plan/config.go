package plan

import (
	"strings"
	"unicode/utf8"

	"dml-mapper/internal/diagnostic"
	"dml-mapper/internal/mapping"
	"dml-mapper/internal/match"
)

type direction int

const (
	asSource direction = iota
	asTarget
)

func (d direction) String() string {
	if d == asSource {
		return "source"
	}

	return "target"
}

// knownKeys lists the recognized configuration keys per format and direction.
var knownKeys = map[mapping.Format][2][]string{
	mapping.FormatCSV: {
		{"file", "delimiter", "has_header"},
		{"file", "delimiter", "has_header"},
	},
	mapping.FormatXML: {
		{"file", "root_element", "namespace"},
		{"file", "root_element", "record_element", "namespace"},
	},
	mapping.FormatDB: {
		{"type", "connection_string", "query", "table"},
		{"type", "connection_string", "table", "mode", "key"},
	},
	mapping.FormatEDI: {
		{"file", "version", "segment_delimiter", "element_delimiter"},
		{"file", "version", "segment_delimiter", "element_delimiter"},
	},
	mapping.FormatJSON: {
		{"file", "root_element"},
		{"file"},
	},
}

// optionsBuilder reads one declaration's config, reporting into diags.
type optionsBuilder struct {
	cfg     mapping.Config
	pos     mapping.Position
	subject string
	diags   *diagnostic.Diagnostics
}

func buildOptions(
	format mapping.Format,
	dir direction,
	cfg mapping.Config,
	pos mapping.Position,
	subject string,
	diags *diagnostic.Diagnostics,
) Options {
	b := &optionsBuilder{cfg: cfg, pos: pos, subject: subject, diags: diags}
	b.warnUnknownKeys(knownKeys[format][dir])

	switch format {
	case mapping.FormatCSV:
		return b.csv(dir)
	case mapping.FormatXML:
		return b.xml(dir)
	case mapping.FormatDB:
		return b.db(dir)
	case mapping.FormatEDI:
		return b.edi(dir)
	case mapping.FormatJSON:
		return b.json(dir)
	default:
		diags.AddError(diagnostic.CodeInvalidConfigValue, pos, subject, "unsupported format %s", format)
		return nil
	}
}

func (b *optionsBuilder) csv(dir direction) Options {
	opt := CSVOptions{
		File:      b.file(dir),
		Delimiter: ',',
		HasHeader: true,
	}

	if d, ok := b.cfg.String("delimiter"); ok {
		r, size := utf8.DecodeRuneInString(d)
		if size == 0 || size != len(d) {
			b.invalid("delimiter", "delimiter must be a single character, got %q", d)
		} else {
			opt.Delimiter = r
		}
	}

	hasHeader, present, err := b.cfg.Bool("has_header")
	if err != nil {
		b.invalid("has_header", "%v", err)
	} else if present {
		opt.HasHeader = hasHeader
	}

	return opt
}

func (b *optionsBuilder) xml(dir direction) Options {
	opt := XMLOptions{
		File:        b.file(dir),
		RootElement: b.cfg.StringOr("root_element", ""),
		Namespace:   b.cfg.StringOr("namespace", ""),
	}

	if dir == asTarget {
		if opt.RootElement == "" {
			opt.RootElement = "Root"
		}

		opt.RecordElement = b.cfg.StringOr("record_element", "Item")
	}

	return opt
}

func (b *optionsBuilder) db(dir direction) Options {
	opt := DBOptions{
		Driver:           strings.ToLower(b.cfg.StringOr("type", "sqlite")),
		ConnectionString: b.cfg.StringOr("connection_string", ""),
	}

	b.oneOf("type", opt.Driver, DBDrivers)

	if dir == asSource {
		opt.Query = b.cfg.StringOr("query", "")
		opt.Table = b.cfg.StringOr("table", "")

		if opt.Query == "" && opt.Table == "" {
			b.diags.AddError(diagnostic.CodeMissingRequiredConfig, b.pos, b.subject,
				"DB source requires \"query\" or \"table\"")
		}

		return opt
	}

	opt.Table = b.cfg.StringOr("table", "")
	if opt.Table == "" {
		b.diags.AddError(diagnostic.CodeMissingRequiredConfig, b.pos, b.subject, "DB target requires \"table\"")
	}

	opt.Mode = strings.ToLower(b.cfg.StringOr("mode", "insert"))
	b.oneOf("mode", opt.Mode, DBModes)

	opt.Key = b.cfg.StringOr("key", "id")

	return opt
}

func (b *optionsBuilder) edi(dir direction) Options {
	opt := EDIOptions{
		File:             b.file(dir),
		Version:          strings.ToUpper(b.cfg.StringOr("version", "X12")),
		SegmentDelimiter: b.cfg.StringOr("segment_delimiter", "~"),
	}

	b.oneOf("version", opt.Version, EDIVersions)

	defaultElement := "*"
	if opt.Version == "EDIFACT" {
		defaultElement = "+"
	}

	opt.ElementDelimiter = b.cfg.StringOr("element_delimiter", defaultElement)

	if opt.SegmentDelimiter == "" {
		b.invalid("segment_delimiter", "segment_delimiter must not be empty")
	}

	if opt.ElementDelimiter == "" || opt.ElementDelimiter == opt.SegmentDelimiter {
		b.invalid("element_delimiter", "element_delimiter must be non-empty and differ from segment_delimiter")
	}

	return opt
}

func (b *optionsBuilder) json(dir direction) Options {
	return JSONOptions{
		File:        b.file(dir),
		RootElement: b.cfg.StringOr("root_element", ""),
	}
}

// file reads "file"; it is mandatory for file-based sources only, since a
// target path is normally passed to the generated program.
func (b *optionsBuilder) file(dir direction) string {
	f, ok := b.cfg.String("file")
	if (!ok || f == "") && dir == asSource {
		b.diags.AddError(diagnostic.CodeMissingRequiredConfig, b.pos, b.subject, "source requires \"file\"")
	}

	return f
}

func (b *optionsBuilder) oneOf(key, value string, allowed []string) {
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return
		}
	}

	b.invalid(key, "%s must be one of %s, got %q", key, strings.Join(allowed, ", "), value).
		WithSuggestions(match.Suggest(value, allowed)...)
}

func (b *optionsBuilder) invalid(key, format string, args ...any) *diagnostic.Diagnostic {
	pos := b.pos
	if e, ok := b.cfg.Lookup(key); ok {
		pos = e.Pos
	}

	return b.diags.AddError(diagnostic.CodeInvalidConfigValue, pos, b.subject, format, args...)
}

func (b *optionsBuilder) warnUnknownKeys(known []string) {
	for _, e := range b.cfg {
		found := false

		for _, k := range known {
			if strings.EqualFold(k, e.Key) {
				found = true
				break
			}
		}

		if !found {
			b.diags.AddWarning(diagnostic.CodeUnknownConfigKey, e.Pos, b.subject, "unknown configuration key %q", e.Key).
				WithSuggestions(match.Suggest(e.Key, known)...)
		}
	}
}
