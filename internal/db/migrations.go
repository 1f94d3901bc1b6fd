package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
// Statements must stay idempotent: they run on every startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS properties (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		project_name  TEXT    NOT NULL,
		area          TEXT    NOT NULL,
		price         INTEGER CHECK (price IS NULL OR price > 0),
		bhk           TEXT    NOT NULL DEFAULT '',
		size_min      REAL,
		size_max      REAL,
		property_type TEXT    NOT NULL DEFAULT '',
		possession    TEXT    NOT NULL DEFAULT '',
		builder       TEXT    NOT NULL DEFAULT '',
		rera_number   TEXT    NOT NULL DEFAULT '',
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS requirements (
		id                   INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id            TEXT    NOT NULL,
		seq                  INTEGER NOT NULL,
		name                 TEXT    NOT NULL DEFAULT '',
		budget_text          TEXT    NOT NULL DEFAULT '',
		budget_min           INTEGER,
		budget_max           INTEGER,
		configurations       TEXT    NOT NULL DEFAULT '[]',
		locations            TEXT    NOT NULL DEFAULT '[]',
		possessions          TEXT    NOT NULL DEFAULT '[]',
		property_type        TEXT    NOT NULL DEFAULT '',
		size_min             REAL,
		size_max             REAL,
		financing            TEXT    NOT NULL DEFAULT '',
		include_gst          INTEGER NOT NULL DEFAULT 0,
		matched_count        INTEGER NOT NULL DEFAULT 0,
		unique_matched_count INTEGER NOT NULL DEFAULT 0,
		created_at           DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at           DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (client_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS shortlist (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id    TEXT    NOT NULL,
		property_key TEXT    NOT NULL,
		note         TEXT    NOT NULL DEFAULT '',
		status       TEXT    NOT NULL DEFAULT '',
		source       TEXT    NOT NULL DEFAULT 'dynamic',
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (client_id, property_key)
	)`,
	`CREATE TABLE IF NOT EXISTS meetings (
		id                TEXT     PRIMARY KEY,
		client_id         TEXT     NOT NULL,
		client_name       TEXT     NOT NULL,
		expert_email      TEXT     NOT NULL,
		expert_name       TEXT     NOT NULL DEFAULT '',
		start_time        DATETIME NOT NULL,
		end_time          DATETIME NOT NULL,
		duration_min      INTEGER  NOT NULL DEFAULT 45,
		status            TEXT     NOT NULL DEFAULT 'scheduled',
		calendar_event_id TEXT     NOT NULL DEFAULT '',
		created_at        DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_expert_start
		ON meetings (expert_email, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_area
		ON properties (area)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	// Column additions (idempotent — checks if column exists first)
	columnMigrations := []struct {
		table, column, definition string
	}{
		{"requirements", "financing", "TEXT NOT NULL DEFAULT ''"},
		{"meetings", "calendar_event_id", "TEXT NOT NULL DEFAULT ''"},
	}

	for _, cm := range columnMigrations {
		if err := addColumnIfNotExists(db, cm.table, cm.column, cm.definition); err != nil {
			return fmt.Errorf("adding %s.%s: %w", cm.table, cm.column, err)
		}
	}

	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(db *sql.DB, table, column, definition string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("checking table info: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scanning column info: %w", err)
		}
		if name == column {
			return nil // column already exists
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating columns: %w", err)
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}
