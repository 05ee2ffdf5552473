package export

import (
	"database/sql"
	"fmt"
)

// Schema version for tracking migrations
const SchemaVersion = 1

// CreateSchema creates all tables and indexes in the database.
func CreateSchema(db *sql.DB) error {
	if err := createCoreTables(db); err != nil {
		return fmt.Errorf("create core tables: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	if err := createMetaTable(db); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	return nil
}

// createCoreTables creates the groups, bookmarks, ranges and recents tables.
func createCoreTables(db *sql.DB) error {
	tables := []struct {
		name string
		sql  string
	}{
		{"groups", `
			CREATE TABLE IF NOT EXISTS bookmark_groups (
				name TEXT PRIMARY KEY,
				expanded INTEGER NOT NULL DEFAULT 1
			)
		`},
		{"bookmarks", `
			CREATE TABLE IF NOT EXISTS bookmarks (
				id TEXT PRIMARY KEY,
				group_name TEXT NOT NULL REFERENCES bookmark_groups(name),
				label TEXT,
				type TEXT NOT NULL,
				frequency INTEGER NOT NULL,
				bandwidth INTEGER NOT NULL,
				display TEXT NOT NULL,
				search_text TEXT NOT NULL
			)
		`},
		{"ranges", `
			CREATE TABLE IF NOT EXISTS ranges (
				id TEXT PRIMARY KEY,
				label TEXT,
				start_hz INTEGER NOT NULL,
				end_hz INTEGER NOT NULL
			)
		`},
		// Recents keep their position; the newest has the highest.
		{"recents", `
			CREATE TABLE IF NOT EXISTS recents (
				id TEXT PRIMARY KEY,
				position INTEGER NOT NULL,
				label TEXT,
				type TEXT NOT NULL,
				frequency INTEGER NOT NULL,
				bandwidth INTEGER NOT NULL
			)
		`},
	}
	for _, tbl := range tables {
		if _, err := db.Exec(tbl.sql); err != nil {
			return fmt.Errorf("create %s table: %w", tbl.name, err)
		}
	}
	return nil
}

// createIndexes creates performance indexes for common queries.
func createIndexes(db *sql.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_group ON bookmarks(group_name, frequency)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_frequency ON bookmarks(frequency)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_type ON bookmarks(type)`,
		`CREATE INDEX IF NOT EXISTS idx_ranges_start ON ranges(start_hz)`,
		`CREATE INDEX IF NOT EXISTS idx_recents_position ON recents(position DESC)`,
	}

	for _, sql := range indexes {
		if _, err := db.Exec(sql); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

// createMetaTable creates the export metadata table.
func createMetaTable(db *sql.DB) error {
	metaSQL := `
		CREATE TABLE IF NOT EXISTS export_meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)
	`
	if _, err := db.Exec(metaSQL); err != nil {
		return fmt.Errorf("create export_meta table: %w", err)
	}

	return nil
}

// CreateFTSIndex creates the FTS5 full-text search table over bookmarks.
// This must be called after bookmarks are inserted.
func CreateFTSIndex(db *sql.DB) error {
	ftsSQL := `
		CREATE VIRTUAL TABLE IF NOT EXISTS bookmarks_fts USING fts5(
			id,
			label,
			type,
			group_name,
			search_text,
			content='bookmarks',
			content_rowid='rowid',
			tokenize='unicode61'
		)
	`
	if _, err := db.Exec(ftsSQL); err != nil {
		return fmt.Errorf("create FTS5 table: %w", err)
	}

	if _, err := db.Exec(`INSERT INTO bookmarks_fts(bookmarks_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("populate FTS index: %w", err)
	}

	return nil
}

// OptimizeDatabase compacts the database.
// Call this as the final step before closing the database.
func OptimizeDatabase(db *sql.DB, pageSize int) error {
	if pageSize <= 0 {
		pageSize = 4096
	}

	optimizations := []string{
		`PRAGMA journal_mode=DELETE`,
		fmt.Sprintf(`PRAGMA page_size=%d`, pageSize),
		`ANALYZE`,
		`PRAGMA optimize`,
	}

	for _, sql := range optimizations {
		if _, err := db.Exec(sql); err != nil {
			// Some pragmas may fail depending on state, continue
			continue
		}
	}

	_, _ = db.Exec(`INSERT INTO bookmarks_fts(bookmarks_fts) VALUES('optimize')`)

	// VACUUM must be last and outside transaction
	if _, err := db.Exec(`VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}

	return nil
}

// InsertMetaValue inserts or updates a metadata key-value pair.
func InsertMetaValue(db *sql.DB, key, value string) error {
	sql := `INSERT OR REPLACE INTO export_meta (key, value) VALUES (?, ?)`
	_, err := db.Exec(sql, key, value)
	return err
}
