package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DatabaseFile is the sqlite file inside the data directory.
const DatabaseFile = "smartbar.db"

// Open opens (creating if needed) the smartbar database in dataDir and
// brings its schema up to date.
func Open(dataDir string) (*sql.DB, error) {
	return OpenPath(filepath.Join(dataDir, DatabaseFile))
}

// OpenPath opens the database at path.
func OpenPath(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initialize(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

func initialize(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS transcripts (
		document_id TEXT PRIMARY KEY,
		messages TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS history (
		url TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		visits INTEGER NOT NULL DEFAULT 0,
		last_visited DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS searches (
		query TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0,
		last_used DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_visits ON history(visits DESC);
	`

	if _, err := db.Exec(schema); err != nil {
		return err
	}

	// Bookmarks arrived after the first history schema; older databases
	// get the column added in place.
	if err := migrateSchema(db); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	return nil
}

// migrateSchema adds missing columns to existing databases
func migrateSchema(db *sql.DB) error {
	hasBookmarked, err := columnExists(db, "history", "bookmarked")
	if err != nil {
		return fmt.Errorf("failed to check for bookmarked column: %w", err)
	}

	if !hasBookmarked {
		_, err := db.Exec(`ALTER TABLE history ADD COLUMN bookmarked INTEGER NOT NULL DEFAULT 0`)
		if err != nil {
			return fmt.Errorf("failed to add bookmarked column: %w", err)
		}
	}

	return nil
}

// columnExists checks if a column exists in a table using PRAGMA table_info
func columnExists(db *sql.DB, tableName, columnName string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var dataType string
		var notNull int
		var defaultValue interface{}
		var pk int

		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return false, err
		}

		if name == columnName {
			return true, nil
		}
	}

	return false, rows.Err()
}
