package dmlrt

import (
	"fmt"
	"strings"
)

// MappingError reports a rule that failed on one record.
type MappingError struct {
	// Record is the 1-based position in the record stream.
	Record int
	// Field is the target field of the failing rule.
	Field string
	// Op names the transform, cast or aggregate that failed.
	Op  string
	Err error
}

func (e *MappingError) Error() string {
	var parts []string

	if e.Record > 0 {
		parts = append(parts, fmt.Sprintf("record %d", e.Record))
	}

	if e.Field != "" {
		parts = append(parts, "field "+e.Field)
	}

	if e.Op != "" {
		parts = append(parts, e.Op)
	}

	return strings.Join(parts, ": ") + ": " + e.Err.Error()
}

func (e *MappingError) Unwrap() error { return e.Err }

// Cause returns the underlying error for github.com/pkg/errors.
func (e *MappingError) Cause() error { return e.Err }
