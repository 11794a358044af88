// Package sqldb implements the store interface on top of database/sql. Every entity is a row of the entities table
// keyed by (kind, key) holding the JSON encoded document; the SQL backends only differ in their dialect.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tarancss/jbx/lib/store"
)

// Dialect holds the backend specific statements.
type Dialect struct {
	Schema string // creates the entities table if missing
	Select string // selects doc by kind and key
	Upsert string // inserts or replaces doc for kind and key
	Drop   string // deletes every row
	// DocArg converts the encoded document into the driver argument for the doc column.
	DocArg func([]byte) interface{}
}

// SQL is a database/sql backed store.
type SQL struct {
	db *sql.DB
	d  Dialect
}

// New wraps an open database and makes sure the schema exists.
func New(ctx context.Context, db *sql.DB, d Dialect) (*SQL, error) {
	if _, err := db.ExecContext(ctx, d.Schema); err != nil {
		return nil, fmt.Errorf("cannot create entities table: %w", err)
	}

	return &SQL{db: db, d: d}, nil
}

// Load decodes the entity of the given kind and key into v.
func (s *SQL) Load(ctx context.Context, kind store.Kind, key string, v interface{}) error {
	var doc []byte

	err := s.db.QueryRowContext(ctx, s.d.Select, string(kind), key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("cannot load %s %s: %w", kind, key, err)
	}

	return store.Decode(doc, v)
}

// Commit upserts every write of the changeset in one transaction.
func (s *SQL) Commit(ctx context.Context, cs *store.Changeset) error {
	if cs == nil || cs.Len() == 0 {
		return store.ErrEmptyCommit
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, s.d.Upsert)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, w := range cs.Writes() {
		doc, err := store.Encode(w.Doc)
		if err != nil {
			return err
		}

		if _, err = stmt.ExecContext(ctx, string(w.Kind), w.Key, s.d.DocArg(doc)); err != nil {
			return fmt.Errorf("cannot upsert %s %s: %w", w.Kind, w.Key, err)
		}
	}

	return tx.Commit()
}

// Drop deletes every entity.
func (s *SQL) Drop(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.d.Drop); err != nil {
		return fmt.Errorf("cannot empty entities table: %w", err)
	}

	return nil
}

// Close closes the database.
func (s *SQL) Close() error {
	return s.db.Close()
}
