// Package sqlite implements the store interface for SQLite files, using the pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" //nolint:gci // load the sqlite driver that is used by the system

	"github.com/tarancss/jbx/lib/store/sqldb"
)

// Dialect is the SQLite flavour of the entities table.
var Dialect = sqldb.Dialect{ //nolint:gochecknoglobals // read-only statements
	Schema: `CREATE TABLE IF NOT EXISTS entities (
		kind TEXT NOT NULL,
		key  TEXT NOT NULL,
		doc  TEXT NOT NULL,
		PRIMARY KEY (kind, key)
	)`,
	Select: `SELECT doc FROM entities WHERE kind = ? AND key = ?`,
	Upsert: `INSERT INTO entities (kind, key, doc) VALUES (?, ?, ?)
		ON CONFLICT (kind, key) DO UPDATE SET doc = excluded.doc`,
	Drop:   `DELETE FROM entities`,
	DocArg: func(b []byte) interface{} { return string(b) },
}

// New opens (or creates) the SQLite database at path.
func New(path string) (*sqldb.SQL, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open sqlite DB in %s: %w", path, err)
	}

	// a single connection serialises writers and keeps ":memory:" databases alive
	db.SetMaxOpenConns(1)

	s, err := sqldb.New(context.Background(), db, Dialect)
	if err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}
