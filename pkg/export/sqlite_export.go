package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vanderheijden86/tunebook/pkg/debug"
	"github.com/vanderheijden86/tunebook/pkg/model"

	_ "modernc.org/sqlite"
)

// DatabaseName is the file written into the output directory.
const DatabaseName = "tunebook.sqlite3"

// SQLiteExporter writes a Document to a SQLite database.
type SQLiteExporter struct {
	Doc    Document
	Config SQLiteExportConfig
}

// NewSQLiteExporter creates a new exporter for doc.
func NewSQLiteExporter(doc Document) *SQLiteExporter {
	return &SQLiteExporter{Doc: doc, Config: DefaultSQLiteExportConfig()}
}

// Export writes the database (and meta.json) into outputDir, replacing an
// earlier export. It returns the database path.
func (e *SQLiteExporter) Export(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	dbPath := filepath.Join(outputDir, DatabaseName)
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	dbClosed := false
	defer func() {
		if !dbClosed {
			db.Close()
		}
	}()

	if err := CreateSchema(db); err != nil {
		return "", fmt.Errorf("create schema: %w", err)
	}
	if err := e.insertGroups(db); err != nil {
		return "", fmt.Errorf("insert groups: %w", err)
	}
	if err := e.insertBookmarks(db); err != nil {
		return "", fmt.Errorf("insert bookmarks: %w", err)
	}
	if err := e.insertRanges(db); err != nil {
		return "", fmt.Errorf("insert ranges: %w", err)
	}
	if err := e.insertRecents(db); err != nil {
		return "", fmt.Errorf("insert recents: %w", err)
	}

	if err := CreateFTSIndex(db); err != nil {
		debug.Log("export: FTS5 not available: %v", err)
	}

	if err := e.insertMeta(db); err != nil {
		return "", fmt.Errorf("insert meta: %w", err)
	}
	if err := OptimizeDatabase(db, e.Config.PageSize); err != nil {
		return "", fmt.Errorf("optimize database: %w", err)
	}

	if err := db.Close(); err != nil {
		return "", fmt.Errorf("close database: %w", err)
	}
	dbClosed = true

	if e.Config.WriteMeta {
		if err := writeJSON(filepath.Join(outputDir, "meta.json"), e.Doc.Meta); err != nil {
			return "", fmt.Errorf("write meta.json: %w", err)
		}
	}
	return dbPath, nil
}

// inTx runs fn with a prepared statement inside one transaction.
func inTx(db *sql.DB, query string, fn func(*sql.Stmt) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if err := fn(stmt); err != nil {
		return err
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertGroups(db *sql.DB) error {
	return inTx(db, `INSERT INTO bookmark_groups (name, expanded) VALUES (?, ?)`, func(stmt *sql.Stmt) error {
		for _, g := range e.Doc.Groups {
			if _, err := stmt.Exec(g.Name, g.Expanded); err != nil {
				return fmt.Errorf("insert group %q: %w", g.Name, err)
			}
		}
		return nil
	})
}

func (e *SQLiteExporter) insertBookmarks(db *sql.DB) error {
	query := `
		INSERT INTO bookmarks (id, group_name, label, type, frequency, bandwidth, display, search_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	return inTx(db, query, func(stmt *sql.Stmt) error {
		for _, b := range e.Doc.Bookmarks {
			_, err := stmt.Exec(b.ID, b.Group, b.Label, b.Type, b.Frequency, b.Bandwidth, b.Display, searchText(b))
			if err != nil {
				return fmt.Errorf("insert bookmark %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

func (e *SQLiteExporter) insertRanges(db *sql.DB) error {
	return inTx(db, `INSERT INTO ranges (id, label, start_hz, end_hz) VALUES (?, ?, ?, ?)`, func(stmt *sql.Stmt) error {
		for _, r := range e.Doc.Ranges {
			if _, err := stmt.Exec(r.ID, r.Label, r.Start, r.End); err != nil {
				return fmt.Errorf("insert range %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

func (e *SQLiteExporter) insertRecents(db *sql.DB) error {
	query := `
		INSERT INTO recents (id, position, label, type, frequency, bandwidth)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	return inTx(db, query, func(stmt *sql.Stmt) error {
		for i, b := range e.Doc.Recents {
			if _, err := stmt.Exec(b.ID, i, b.Label, b.Type, b.Frequency, b.Bandwidth); err != nil {
				return fmt.Errorf("insert recent %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

// insertMeta inserts export metadata.
func (e *SQLiteExporter) insertMeta(db *sql.DB) error {
	m := e.Doc.Meta
	meta := map[string]string{
		"version":        m.Version,
		"generated_at":   m.GeneratedAt.Format(time.RFC3339),
		"schema_version": strconv.Itoa(SchemaVersion),
		"group_count":    strconv.Itoa(m.GroupCount),
		"bookmark_count": strconv.Itoa(m.BookmarkCount),
		"range_count":    strconv.Itoa(m.RangeCount),
		"recent_count":   strconv.Itoa(m.RecentCount),
	}
	if src := e.Config.Source; src != "" {
		meta["source"] = src
	} else if m.Source != "" {
		meta["source"] = m.Source
	}

	for key, value := range meta {
		if err := InsertMetaValue(db, key, value); err != nil {
			return fmt.Errorf("insert meta %s: %w", key, err)
		}
	}
	return nil
}

// searchText carries the same words the sidebar search matches on, so a
// query against bookmarks_fts finds what the tree would.
func searchText(b ExportBookmark) string {
	return strings.Join([]string{
		b.Display,
		b.Type,
		model.FrequencyDigits(b.Frequency),
		model.FormatFrequency(b.Frequency),
	}, " ")
}
