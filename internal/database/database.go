package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

// Open connects to the SQLite database at path via libSQL and prepares it
// for concurrent handler access: WAL journaling and a 5 s busy timeout.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite allows a single writer. One pooled connection serializes
	// read-modify-write transactions instead of failing the snapshot
	// upgrade with SQLITE_BUSY, and keeps :memory: databases on one
	// connection instead of one fresh database per pool slot.
	db.SetMaxOpenConns(1)

	// libSQL rejects Exec for PRAGMAs that return rows; QueryContext with a
	// drained result set works for both kinds.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		rows, err := db.QueryContext(ctx, pragma)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %s: %w", pragma, err)
		}
		rows.Close()
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
