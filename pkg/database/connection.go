package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ConnectDB opens a database with the given driver. For SQLite the DSN is a
// file path; a leading tilde is expanded and missing directories are created.
func ConnectDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "", DriverSQLite:
		path, err := expandHome(dsn)
		if err != nil {
			return nil, err
		}

		// Create the directory structure if it doesn't exist
		dbDir := filepath.Dir(path)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return nil, err
			}
		}

		// SQLite will create the database file if it doesn't exist
		return sql.Open(DriverSQLite, path)
	case DriverPostgres:
		return sql.Open(DriverPostgres, dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return homeDir + path[1:], nil
}

// EnsureSchema creates the state table if it doesn't exist
func EnsureSchema(db *sql.DB, driver string) error {
	ts := "TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP"
	if driver == DriverPostgres {
		ts = "TIMESTAMPTZ NOT NULL DEFAULT now()"
	}
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS app_state (
			namespace TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at ` + ts + `
		)
	`)
	return err
}
