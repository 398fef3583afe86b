package plan

import "dml-mapper/internal/mapping"

// TypedColumn is a schema column with a resolved type.
type TypedColumn struct {
	Name string
	Type mapping.ValueType
}

// Enrichment is the plan for a COMPONENT DB block: load every source into a
// table named by its alias, run Query, and stream its rows.
type Enrichment struct {
	Query string
	// Tables lists the source aliases in load order.
	Tables []string
	// Schema holds the load columns per alias: qualified declarations, then
	// unqualified ones not overridden, then undeclared columns the query reads
	// as TEXT.
	Schema map[string][]TypedColumn
	// Columns are the result columns; empty when the query selects '*'.
	Columns []ResultColumn
	Star    bool
}

// ResultColumn is a column of the component result set.
type ResultColumn struct {
	Name string
	Type mapping.ValueType
}

// TableSchema returns the declared columns for alias.
func (e *Enrichment) TableSchema(alias string) []TypedColumn {
	return e.Schema[alias]
}

// Column returns the result column named name.
func (e *Enrichment) Column(name string) (ResultColumn, bool) {
	for _, c := range e.Columns {
		if c.Name == name {
			return c, true
		}
	}

	return ResultColumn{}, false
}

// resolveSchema distributes the declared columns onto each alias. Unqualified
// columns apply to every table unless the table declares the same name.
func resolveSchema(cols []mapping.Column, aliases []string, types map[*mapping.Column]mapping.ValueType) map[string][]TypedColumn {
	out := make(map[string][]TypedColumn, len(aliases))

	for _, alias := range aliases {
		seen := map[string]bool{}

		var list []TypedColumn

		for i := range cols {
			c := &cols[i]
			if c.Table == alias {
				list = append(list, TypedColumn{Name: c.Name, Type: types[c]})
				seen[c.Name] = true
			}
		}

		for i := range cols {
			c := &cols[i]
			if c.Table == "" && !seen[c.Name] {
				list = append(list, TypedColumn{Name: c.Name, Type: types[c]})
				seen[c.Name] = true
			}
		}

		if len(list) > 0 {
			out[alias] = list
		}
	}

	return out
}

// addReferences appends the columns the query reads but the schema does not
// declare, so a source that is empty or lacks them still loads as a table
// with those columns and joins to NULLs.
func (e *Enrichment) addReferences(refs map[string][]string) {
	for _, alias := range e.Tables {
		for _, name := range refs[alias] {
			if e.hasColumn(alias, name) {
				continue
			}

			if e.Schema == nil {
				e.Schema = map[string][]TypedColumn{}
			}

			e.Schema[alias] = append(e.Schema[alias], TypedColumn{Name: name, Type: mapping.TypeString})
		}
	}
}

func (e *Enrichment) hasColumn(table, column string) bool {
	for _, c := range e.Schema[table] {
		if c.Name == column {
			return true
		}
	}

	return false
}

// columnType finds the declared type of table.column.
func (e *Enrichment) columnType(table, column string) mapping.ValueType {
	for _, c := range e.Schema[table] {
		if c.Name == column {
			return c.Type
		}
	}

	return mapping.TypeUnknown
}
