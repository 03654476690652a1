package shared

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMS lets the TUI and a CLI command share the local storage file without "database is locked" errors.
const busyTimeoutMS = 5000

// NewDatabase opens the SQLite database holding local storage and playlist history.
//
// path may be ":memory:". Every pooled connection waits on locks for up to five seconds and enforces foreign keys.
func NewDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", databaseDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func databaseDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d&_foreign_keys=on", path, sep, busyTimeoutMS)
}

// ConfigureDatabase sets connection pool limits. In-memory databases need a single connection to stay shared.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}
