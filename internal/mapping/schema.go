package mapping

import (
	"fmt"
	"strings"
)

// ParseSchema parses a DDL-like column list such as
// "id INTEGER, name TEXT, ref.status VARCHAR(20)". A qualified name binds the
// column to one source alias.
func ParseSchema(text string) ([]Column, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var columns []Column

	for _, part := range splitColumns(text) {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			return nil, fmt.Errorf("column %q: expected \"name TYPE\"", strings.TrimSpace(part))
		}

		col := Column{Name: fields[0], Type: strings.Join(fields[1:], " ")}
		if table, name, ok := strings.Cut(col.Name, "."); ok {
			if table == "" || name == "" {
				return nil, fmt.Errorf("column %q: invalid qualified name", col.Name)
			}

			col.Table, col.Name = table, name
		}

		columns = append(columns, col)
	}

	return columns, nil
}

// splitColumns splits on commas outside parentheses so that DECIMAL(10,2)
// stays one type.
func splitColumns(text string) []string {
	var (
		parts []string
		depth int
		start int
	)

	for i, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}

	parts = append(parts, text[start:])

	out := parts[:0]

	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}

	return out
}
