package plan

import (
	"strings"

	"github.com/viant/sqlparser"
	"github.com/viant/sqlparser/expr"
	"github.com/viant/sqlparser/node"
	"github.com/viant/sqlparser/query"
)

// QueryInfo is what the validator needs to know about a component query.
type QueryInfo struct {
	// Tables are the table names in FROM and JOIN clauses, in order.
	Tables []string
	// Qualifiers maps SQL aliases and table names to table names.
	Qualifiers map[string]string
	Columns    []QueryColumn
	// Star is set when the projection contains '*'; Columns is then partial.
	Star bool
	// References lists, per table name, the columns the query reads in the
	// projection, join conditions and WHERE clause, in first-seen order.
	References map[string][]string
}

// QueryColumn is one projected column.
type QueryColumn struct {
	// Name is the column name in the result set.
	Name string
	// Qualifier is the table or SQL alias prefix of a plain column reference.
	Qualifier string
	// Column is the referenced column for plain references, else "".
	Column string
}

// AnalyzeQuery parses a SELECT statement and lists its tables and projection.
func AnalyzeQuery(sql string) (*QueryInfo, error) {
	q, err := sqlparser.ParseQuery(strings.TrimSpace(sql))
	if err != nil {
		return nil, err
	}

	info := &QueryInfo{Qualifiers: map[string]string{}, References: map[string][]string{}}

	info.addTable(q.From.X, q.From.Alias)

	for _, join := range q.Joins {
		if join == nil {
			continue
		}

		info.addTable(join.With, join.Alias)
	}

	info.Star = sqlparser.NewColumns(q.List).IsStarExpr()

	for _, item := range q.List {
		if item == nil {
			continue
		}

		if col, ok := projectItem(item); ok {
			info.Columns = append(info.Columns, col)
		}
	}

	info.collectReferences(q.List)

	for _, join := range q.Joins {
		if join != nil && join.On != nil {
			info.collectReferences(join.On)
		}
	}

	if q.Qualify != nil {
		info.collectReferences(q.Qualify.X)
	}

	return info, nil
}

// HasColumn reports whether name is a result column.
func (q *QueryInfo) HasColumn(name string) bool {
	for _, c := range q.Columns {
		if c.Name == name {
			return true
		}
	}

	return false
}

// ColumnNames returns the result column names.
func (q *QueryInfo) ColumnNames() []string {
	names := make([]string, len(q.Columns))
	for i, c := range q.Columns {
		names[i] = c.Name
	}

	return names
}

func (q *QueryInfo) addTable(n node.Node, alias string) {
	name := tableName(n)
	if name == "" {
		return
	}

	q.Tables = append(q.Tables, name)
	q.Qualifiers[name] = name

	if alias = strings.TrimSpace(alias); alias != "" {
		q.Qualifiers[alias] = name
	}
}

func tableName(n node.Node) string {
	switch actual := n.(type) {
	case *expr.Ident:
		return actual.Name
	case *expr.Selector:
		if actual.X == nil {
			return actual.Name
		}

		return sqlparser.Stringify(actual)
	default:
		return ""
	}
}

func projectItem(item *query.Item) (QueryColumn, bool) {
	col := QueryColumn{Name: strings.TrimSpace(item.Alias)}

	switch actual := item.Expr.(type) {
	case *expr.Star:
		return QueryColumn{}, false
	case *expr.Ident:
		col.Column = actual.Name
		if qualifier, name, ok := strings.Cut(actual.Name, "."); ok {
			col.Qualifier, col.Column = qualifier, lastSegment(name)
		}
	case *expr.Selector:
		col.Qualifier = actual.Name
		col.Column = lastSegment(sqlparser.Stringify(actual.X))
	}

	if col.Name == "" {
		if col.Column != "" {
			col.Name = col.Column
		} else {
			col.Name = sqlparser.Stringify(item.Expr)
		}
	}

	return col, true
}

func lastSegment(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}

	return s
}

func (q *QueryInfo) collectReferences(n node.Node) {
	sqlparser.Traverse(n, func(n node.Node) bool {
		switch actual := n.(type) {
		case *expr.Switch, *expr.Values:
			return false
		case *expr.Call:
			for _, arg := range actual.Args {
				q.collectReferences(arg)
			}

			return false
		case *expr.Selector:
			if col, ok := actual.X.(*expr.Ident); ok {
				q.addReference(actual.Name, col.Name)
				return false
			}
		case *expr.Ident:
			if qualifier, name, ok := strings.Cut(actual.Name, "."); ok {
				q.addReference(qualifier, lastSegment(name))
			} else if len(q.Tables) == 1 {
				q.addReference(q.Tables[0], actual.Name)
			}
		}

		return true
	})
}

func (q *QueryInfo) addReference(qualifier, column string) {
	table, ok := q.Qualifiers[qualifier]
	if !ok || column == "" {
		return
	}

	for _, c := range q.References[table] {
		if c == column {
			return
		}
	}

	q.References[table] = append(q.References[table], column)
}
