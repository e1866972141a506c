// Package db persists fusion runs and their per-cycle state estimates in a
// sqlite database so they can be listed, charted, and queried after the
// batch process exits.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite connection holding runs and estimates.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the run store at path and brings the
// schema up to the latest migration.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening run store: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	db := &DB{conn}
	if err := db.migrateUp(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}
