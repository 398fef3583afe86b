package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// FieldPath is a parsed field path.
type FieldPath struct {
	Segments []string
}

// ParsePath parses a field path string into a FieldPath.
// Supports: "Field", "Nested/Field", "Nested.Field", "Order/@id", "N1/01".
func ParsePath(path string) (FieldPath, error) {
	if path == "" {
		return FieldPath{}, errors.New("empty path")
	}

	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '.' })
	if len(parts) == 0 || strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") ||
		strings.Contains(path, "//") || strings.Contains(path, "..") {
		return FieldPath{}, fmt.Errorf("invalid path %q: empty segment", path)
	}

	for _, part := range parts {
		if !isValidSegment(part) {
			return FieldPath{}, fmt.Errorf("invalid path %q: invalid segment %q", path, part)
		}
	}

	return FieldPath{Segments: parts}, nil
}

// MustParsePath is ParsePath for paths known to be valid.
func MustParsePath(path string) FieldPath {
	p, err := ParsePath(path)
	if err != nil {
		panic(err)
	}

	return p
}

// String returns the path with '/' separators.
func (p FieldPath) String() string {
	return strings.Join(p.Segments, "/")
}

// IsSimple returns true if the path has a single segment.
func (p FieldPath) IsSimple() bool {
	return len(p.Segments) == 1
}

// Root returns the first segment, or "" for an empty path.
func (p FieldPath) Root() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[0]
}

// Last returns the last segment, or "" for an empty path.
func (p FieldPath) Last() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[len(p.Segments)-1]
}

// IsEmpty returns true if the path has no segments.
func (p FieldPath) IsEmpty() bool {
	return len(p.Segments) == 0
}

// Equals compares two paths segment by segment.
func (p FieldPath) Equals(other FieldPath) bool {
	if len(p.Segments) != len(other.Segments) {
		return false
	}

	for i := range p.Segments {
		if p.Segments[i] != other.Segments[i] {
			return false
		}
	}

	return true
}

// FieldRef is a reference to a field of the active record, optionally scoped
// to a source alias.
type FieldRef struct {
	Alias string
	Path  FieldPath
	Pos   Position
}

func (f FieldRef) String() string {
	if f.Alias != "" {
		return f.Alias + ":" + f.Path.String()
	}

	return f.Path.String()
}

// isValidSegment accepts identifier characters plus a leading '@' for XML
// attributes. Segments may start with a digit (EDI element positions).
func isValidSegment(s string) bool {
	if s == "" || s == "@" {
		return false
	}

	for i, r := range s {
		if r == '@' && i == 0 {
			continue
		}

		if !isLetter(r) && !isDigit(r) && r != '_' && r != '-' && r != ' ' {
			return false
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
