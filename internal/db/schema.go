package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Timestamps are unix milliseconds.
const schema = `
CREATE TABLE IF NOT EXISTS mediums (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL,
    image_url   TEXT NOT NULL,
    image       BLOB,
    image_mime  TEXT,
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    id             TEXT PRIMARY KEY,
    medium_id      TEXT NOT NULL REFERENCES mediums(id),
    title          TEXT NOT NULL,
    creator        TEXT NOT NULL,
    image_url      TEXT NOT NULL,
    description    TEXT NOT NULL,
    rating         REAL NOT NULL DEFAULT 0 CHECK (rating >= 0 AND rating <= 5),
    is_wishlist    INTEGER NOT NULL DEFAULT 0 CHECK (is_wishlist IN (0, 1)),
    is_liked       INTEGER NOT NULL DEFAULT 0 CHECK (is_liked IN (0, 1)),
    is_consumed    INTEGER NOT NULL DEFAULT 0 CHECK (is_consumed IN (0, 1)),
    is_in_progress INTEGER NOT NULL DEFAULT 0 CHECK (is_in_progress IN (0, 1)),
    image          BLOB,
    image_mime     TEXT,
    created_at     INTEGER NOT NULL,
    updated_at     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_medium ON items(medium_id);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: listings sort by creation time.
	`CREATE INDEX IF NOT EXISTS idx_items_created ON items(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_mediums_created ON mediums(created_at)`,
}

// EnsureSchema creates all tables and indexes if they don't already exist and
// applies pending migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
