package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported values of DB_TYPE
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Connect opens the database and makes sure the schema exists.
// For sqlite the dsn is a file path (or ":memory:").
func Connect(dbType, dsn string) (*sqlx.DB, error) {
	if dbType == "" {
		dbType = TypeSQLite
	}

	var driver string
	switch dbType {
	case TypeSQLite:
		driver = "sqlite3"
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			// Create data directory if it doesn't exist
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	case TypePostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dbType == TypeSQLite {
		// SQLite doesn't support multiple writers; one connection also keeps
		// an in-memory database alive across queries
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db, dbType); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB, dbType string) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if dbType == TypePostgres {
		idColumn = "id SERIAL PRIMARY KEY"
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS daily_progress (
			day TEXT PRIMARY KEY,
			completed INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create daily_progress table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS review_outcomes (
			` + idColumn + `,
			session_id TEXT NOT NULL,
			subject_id INTEGER NOT NULL,
			incorrect_meaning INTEGER NOT NULL DEFAULT 0,
			incorrect_reading INTEGER NOT NULL DEFAULT 0,
			reported BOOLEAN NOT NULL DEFAULT false,
			error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_outcomes table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_review_outcomes_created ON review_outcomes (created_at)`)
	if err != nil {
		return fmt.Errorf("failed to create review_outcomes index: %w", err)
	}

	return nil
}
