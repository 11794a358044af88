// Package db implements the opening of database connections by store type.
package db

import (
	"fmt"

	"github.com/tarancss/jbx/lib/store"
	"github.com/tarancss/jbx/lib/store/memory"
	"github.com/tarancss/jbx/lib/store/mongo"
	"github.com/tarancss/jbx/lib/store/postgres"
	"github.com/tarancss/jbx/lib/store/sqlite"
)

// Store types.
const (
	MONGODB  string = "mongodb"
	POSTGRES string = "postgresql"
	SQLITE   string = "sqlite"
	MEMORY   string = "memory"
)

// New returns a new database connection according to the options (database type).
func New(options, connection string) (store.DB, error) {
	var (
		db  store.DB
		err error
	)

	switch options {
	case MONGODB:
		db, err = mongo.New(connection)
	case POSTGRES:
		db, err = postgres.New(connection)
	case SQLITE:
		db, err = sqlite.New(connection)
	case MEMORY:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", options)
	}

	if err != nil {
		return nil, err
	}

	return db, nil
}
