// Package postgres implements the store interface for PostgreSQL. Documents are kept in a jsonb column.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" //nolint:gci // load the postgres driver that is used by the system

	"github.com/tarancss/jbx/lib/store/sqldb"
)

// Dialect is the PostgreSQL flavour of the entities table.
var Dialect = sqldb.Dialect{ //nolint:gochecknoglobals // read-only statements
	Schema: `CREATE TABLE IF NOT EXISTS entities (
		kind TEXT NOT NULL,
		key  TEXT NOT NULL,
		doc  JSONB NOT NULL,
		PRIMARY KEY (kind, key)
	)`,
	Select: `SELECT doc FROM entities WHERE kind = $1 AND key = $2`,
	Upsert: `INSERT INTO entities (kind, key, doc) VALUES ($1, $2, $3)
		ON CONFLICT (kind, key) DO UPDATE SET doc = EXCLUDED.doc`,
	Drop:   `DELETE FROM entities`,
	// lib/pq sends []byte as bytea, jsonb needs text
	DocArg: func(b []byte) interface{} { return string(b) },
}

// New returns a postgres backed store for the database in 'connection'.
func New(connection string) (*sqldb.SQL, error) {
	db, err := sql.Open("postgres", connection)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to DB in %s: %w", connection, err)
	}

	s, err := sqldb.New(context.Background(), db, Dialect)
	if err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}
