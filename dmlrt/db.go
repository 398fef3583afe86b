package dmlrt

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// DB write modes.
const (
	ModeInsert = "insert"
	ModeUpdate = "update"
	ModeUpsert = "upsert"
)

// driverNames maps configured DB types to database/sql driver names.
var driverNames = map[string]string{
	"postgres": "postgres",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
}

func openDB(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	name, ok := driverNames[strings.ToLower(driver)]
	if !ok {
		return nil, errors.Errorf("unsupported database type %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, name, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %v", driver)
	}

	return db, nil
}

func flavor(driver string) sqlbuilder.Flavor {
	switch strings.ToLower(driver) {
	case "postgres":
		return sqlbuilder.PostgreSQL
	case "mysql":
		return sqlbuilder.MySQL
	default:
		return sqlbuilder.SQLite
	}
}

// DBReader runs Query, or selects every row of Table.
type DBReader struct {
	Driver string
	Query  string
	Table  string
}

func (d DBReader) Read(ctx context.Context, location string) ([]*Record, error) {
	db, err := openDB(ctx, d.Driver, location)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := d.Query
	if query == "" {
		sb := flavor(d.Driver).NewSelectBuilder()
		sb.Select("*").From(d.Table)
		query, _ = sb.Build()
	}

	return queryRecords(ctx, db, query)
}

// DBWriter writes records to Table. Columns are the union of the record
// keys; Key identifies rows for update and upsert.
type DBWriter struct {
	Driver string
	Table  string
	Mode   string
	Key    string
}

func (d DBWriter) Write(ctx context.Context, location string, records []*Record) error {
	if len(records) == 0 {
		return nil
	}

	db, err := openDB(ctx, d.Driver, location)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	cols := columnsOf(records)

	for i, rec := range records {
		query, args := d.statement(cols, rec)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return &MappingError{Record: i + 1, Op: d.mode() + " " + d.Table, Err: err}
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit")
}

func (d DBWriter) mode() string {
	return orDefault(strings.ToLower(d.Mode), ModeInsert)
}

func (d DBWriter) key() string {
	return orDefault(d.Key, "id")
}

func (d DBWriter) statement(cols []string, rec *Record) (string, []any) {
	f := flavor(d.Driver)

	values := make([]any, len(cols))
	for i, c := range cols {
		v, _ := rec.Get(c)

		switch v.(type) {
		case *Record, []any:
			v = FormatValue(v)
		}

		values[i] = v
	}

	if d.mode() == ModeUpdate {
		ub := f.NewUpdateBuilder()
		ub.Update(d.Table)

		var assignments []string

		for i, c := range cols {
			if c != d.key() {
				assignments = append(assignments, ub.Assign(c, values[i]))
			}
		}

		keyValue, _ := rec.Get(d.key())
		ub.Set(assignments...)
		ub.Where(ub.Equal(d.key(), keyValue))

		return ub.Build()
	}

	ib := f.NewInsertBuilder()
	ib.InsertInto(d.Table)
	ib.Cols(cols...)
	ib.Values(values...)

	query, args := ib.Build()
	if d.mode() == ModeUpsert {
		query += d.upsertClause(cols)
	}

	return query, args
}

func (d DBWriter) upsertClause(cols []string) string {
	var sets []string

	mysql := strings.EqualFold(d.Driver, "mysql")

	for _, c := range cols {
		if c == d.key() {
			continue
		}

		if mysql {
			sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", c, c))
		} else {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}

	switch {
	case mysql && len(sets) == 0:
		return fmt.Sprintf(" ON DUPLICATE KEY UPDATE %s = %s", d.key(), d.key())
	case mysql:
		return " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	case len(sets) == 0:
		return fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", d.key())
	default:
		return fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", d.key(), strings.Join(sets, ", "))
	}
}
