package dmlrt

import (
	"context"
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// insertBatch bounds the rows of one INSERT to stay under SQLite's
// host parameter limit.
const insertBatch = 200

// Store is the embedded relational engine used to join sources: every
// source is loaded as a table named by its alias and the enrichment query
// runs over them.
type Store struct {
	db *sqlx.DB
}

// OpenStore opens an empty in-memory database. A single connection is kept
// so every statement sees the same database.
func OpenStore(ctx context.Context) (*Store, error) {
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open store")
	}

	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to open store")
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load creates table with the declared columns followed by every other
// record key as TEXT, and inserts the records. Values of declared columns
// are coerced to the column type.
func (s *Store) Load(ctx context.Context, table string, schema []Column, records []*Record) error {
	cols := tableColumns(schema, records)
	if len(cols) == 0 {
		return errors.Errorf("table %v has no columns; declare them in the component schema", table)
	}

	ctb := sqlbuilder.SQLite.NewCreateTableBuilder()
	ctb.CreateTable(quoteIdent(table))

	for _, c := range cols {
		ctb.Define(quoteIdent(c.Name), sqlType(c.Type))
	}

	ddl, _ := ctb.Build()
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrapf(err, "failed to create table %v", table)
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quoteIdent(c.Name)
	}

	for start := 0; start < len(records); start += insertBatch {
		end := min(start+insertBatch, len(records))

		ib := sqlbuilder.SQLite.NewInsertBuilder()
		ib.InsertInto(quoteIdent(table))
		ib.Cols(names...)

		for i, rec := range records[start:end] {
			values, err := rowValues(cols, rec)
			if err != nil {
				return &MappingError{Record: start + i + 1, Op: "load " + table, Err: err}
			}

			ib.Values(values...)
		}

		query, args := ib.Build()
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "failed to load table %v", table)
		}
	}

	return nil
}

// Query runs query and returns its rows as records keyed by result column.
func (s *Store) Query(ctx context.Context, query string) ([]*Record, error) {
	return queryRecords(ctx, s.db, query)
}

func queryRecords(ctx context.Context, db *sqlx.DB, query string, args ...any) ([]*Record, error) {
	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to run query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read columns")
	}

	var records []*Record

	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}

		rec := NewRecord()
		for i, col := range cols {
			rec.Set(col, fromSQL(values[i]))
		}

		records = append(records, rec)
	}

	return records, errors.Wrap(rows.Err(), "failed to read rows")
}

func tableColumns(schema []Column, records []*Record) []Column {
	cols := append([]Column(nil), schema...)

	declared := make(map[string]bool, len(schema))
	for _, c := range schema {
		declared[c.Name] = true
	}

	for _, name := range columnsOf(records) {
		if !declared[name] {
			cols = append(cols, Column{Name: name, Type: TypeString})
			declared[name] = true
		}
	}

	return cols
}

func rowValues(cols []Column, rec *Record) ([]any, error) {
	values := make([]any, len(cols))

	for i, c := range cols {
		v, _ := rec.Get(c.Name)

		switch v.(type) {
		case *Record, []any:
			v = FormatValue(v)
		}

		converted, err := Cast(v, c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}

		values[i] = converted
	}

	return values, nil
}

func fromSQL(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case int32:
		return int64(val)
	case int:
		return int64(val)
	case float32:
		return float64(val)
	default:
		return val
	}
}

func sqlType(t Type) string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeDecimal:
		return "REAL"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeDatetime:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
