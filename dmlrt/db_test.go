package dmlrt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBWriter_Statement(t *testing.T) {
	rec := record("id", int64(7), "name", "Alice")
	cols := []string{"id", "name"}

	tests := []struct {
		name   string
		writer DBWriter
		query  string
		args   []any
	}{
		{
			name:   "postgres insert",
			writer: DBWriter{Driver: "postgres", Table: "orders"},
			query:  "INSERT INTO orders (id, name) VALUES ($1, $2)",
			args:   []any{int64(7), "Alice"},
		},
		{
			name:   "postgres upsert",
			writer: DBWriter{Driver: "postgres", Table: "orders", Mode: ModeUpsert},
			query:  "INSERT INTO orders (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name",
			args:   []any{int64(7), "Alice"},
		},
		{
			name:   "mysql upsert",
			writer: DBWriter{Driver: "mysql", Table: "orders", Mode: ModeUpsert},
			query:  "INSERT INTO orders (id, name) VALUES (?, ?) ON DUPLICATE KEY UPDATE name = VALUES(name)",
			args:   []any{int64(7), "Alice"},
		},
		{
			name:   "postgres update",
			writer: DBWriter{Driver: "postgres", Table: "orders", Mode: ModeUpdate},
			query:  "UPDATE orders SET name = $1 WHERE id = $2",
			args:   []any{"Alice", int64(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := tt.writer.statement(cols, rec)
			assert.Equal(t, tt.query, query)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestDB_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "target.db")

	db, err := sqlx.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE orders (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	w := DBWriter{Driver: "sqlite", Table: "orders", Mode: ModeUpsert}
	require.NoError(t, w.Write(ctx, dsn, []*Record{
		record("id", int64(1), "name", "Alice"),
		record("id", int64(2), "name", "Bob"),
	}))
	require.NoError(t, w.Write(ctx, dsn, []*Record{
		record("id", int64(2), "name", "Robert"),
	}))

	rows, err := DBReader{Driver: "sqlite", Query: "SELECT id, name FROM orders ORDER BY id"}.Read(ctx, dsn)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Robert", Lookup(rows[1], "name"))

	all, err := DBReader{Driver: "sqlite", Table: "orders"}.Read(ctx, dsn)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOpenDB_UnknownDriver(t *testing.T) {
	_, err := openDB(context.Background(), "oracle", "x")
	require.Error(t, err)
}
