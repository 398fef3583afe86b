package diagnostic

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"dml-mapper/internal/common"
	"dml-mapper/internal/mapping"
)

// Diagnostics holds all diagnostic information from validation.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Pos locates the offending construct in the DML source (if known).
	Pos mapping.Position
	// Subject names the field, alias or key concerned (if any).
	Subject string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// New returns an empty Diagnostics.
func New() *Diagnostics {
	return &Diagnostics{}
}

// AddError adds an error diagnostic and returns it for further decoration.
func (d *Diagnostics) AddError(code string, pos mapping.Position, subject, format string, args ...any) *Diagnostic {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Subject:  subject,
	})

	return &d.Errors[len(d.Errors)-1]
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code string, pos mapping.Position, subject, format string, args ...any) *Diagnostic {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Subject:  subject,
	})

	return &d.Warnings[len(d.Warnings)-1]
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code string, pos mapping.Position, subject, format string, args ...any) *Diagnostic {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Subject:  subject,
	})

	return &d.Infos[len(d.Infos)-1]
}

// WithSuggestions attaches suggestions to the diagnostic.
func (d *Diagnostic) WithSuggestions(suggestions ...string) *Diagnostic {
	d.Suggestions = append(d.Suggestions, suggestions...)
	return d
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Codes returns the codes of all errors in order.
func (d *Diagnostics) Codes() []string {
	codes := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		codes = append(codes, e.Code)
	}

	return codes
}

// Sort orders every severity list by source position. The sort is stable so
// diagnostics on the same line keep the order checks produced them.
func (d *Diagnostics) Sort() {
	for _, list := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		sort.SliceStable(list, func(i, j int) bool {
			a, b := list[i].Pos, list[j].Pos
			if a.Line != b.Line {
				return a.Line < b.Line
			}

			return a.Column < b.Column
		})
	}
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Pos.IsValid() {
		prefix = append(prefix, d.Pos.String())
	}

	if d.Subject != "" {
		prefix = append(prefix, d.Subject)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(quoteAll(d.Suggestions), " or "))
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}

	return out
}
