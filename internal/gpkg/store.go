package gpkg

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store provides access to a GeoPackage workspace.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens an existing GeoPackage file.
//
// Unlike a plain SQLite open, the file must already exist and must carry the
// gpkg_contents registry table; a numbering run never creates a workspace.
// The connection is configured with:
//   - a single connection (SQLite allows one writer at a time)
//   - 5-second busy timeout for lock contention
//   - foreign key enforcement
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("workspace not accessible: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to workspace: %w", err)
	}

	// One connection keeps reads and the update pass on the same handle
	// and avoids SQLITE_BUSY between them.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := verifyGeoPackage(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the workspace connection, releasing any SQLite lock.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the workspace file path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// applyPragmas sets required SQLite configuration.
// The journal mode is left untouched: GeoPackages declare their own and
// rewriting it would alter a file this tool only annotates.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyGeoPackage checks that the file carries the GeoPackage registry.
func verifyGeoPackage(db *sql.DB) error {
	var name string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name = 'gpkg_contents'
	`).Scan(&name)
	if err == sql.ErrNoRows {
		return &StoreError{
			Code:    CodeNotGeoPackage,
			Message: "file has no gpkg_contents table",
		}
	}
	if err != nil {
		return fmt.Errorf("failed to inspect workspace: %w", err)
	}
	return nil
}

// quoteIdent quotes a table or column name for embedding in SQL.
// Layer and field names come from the GeoPackage registry or from user
// input and cannot be bound as parameters.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
