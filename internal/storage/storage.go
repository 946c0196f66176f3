// Package storage writes the aggregates of one run to a SQLite file so that
// chart renderers and ad-hoc queries can consume them. Each export replaces
// the previous file; nothing is read back into the extraction pipeline.
package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ErrNoDatabase is returned by OpenExisting when the export file is missing.
var ErrNoDatabase = errors.New("no export database")

// DB wraps a sql.DB for an export file.
type DB struct {
	conn *sql.DB
}

// Create replaces any file at path with a fresh export database.
func Create(path string) (*DB, error) {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("remove old export: %w", err)
		}
	}
	return Open(path)
}

// Open opens (or creates) the SQLite database at the given path and applies the schema.
func Open(path string) (*DB, error) {
	conn, err := connect(fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path))
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// OpenExisting opens an export file for reading. It never creates the file
// and rejects statements that would modify it.
func OpenExisting(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s (run 'wordlestats export' first)", ErrNoDatabase, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	conn, err := connect(fmt.Sprintf("file:%s?_pragma=query_only(1)", path))
	if err != nil {
		return nil, err
	}
	return &DB{conn: conn}, nil
}

func connect(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across queries.
	conn.SetMaxOpenConns(1)
	return conn, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
