package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/spanbot/internal/config"
)

// OpenDB connects to the catalog database and bootstraps the schema.
// The driver comes from config: sqlite3 against a local file (the
// default) or postgres against DATABASE_URL.
func OpenDB(cfg *config.Config) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	switch cfg.DBDriver {
	case "postgres":
		db, err = sqlx.Connect("postgres", cfg.DBURL)
	case "sqlite3":
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
				return nil, fmt.Errorf("failed to create data directory: %v", mkErr)
			}
		}
		db, err = sqlx.Connect("sqlite3", cfg.DBPath)
		if err == nil {
			// SQLite doesn't support multiple writers
			db.SetMaxOpenConns(1)
			db.SetMaxIdleConns(1)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates the words table if it doesn't exist. IDs are
// unique per category, matching the catalog invariant.
func initializeSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS words (
			id INTEGER NOT NULL,
			category TEXT NOT NULL,
			spanish TEXT NOT NULL,
			spanish_f TEXT NOT NULL DEFAULT '',
			plural_m TEXT NOT NULL DEFAULT '',
			plural_f TEXT NOT NULL DEFAULT '',
			english TEXT NOT NULL,
			conjugation TEXT NOT NULL DEFAULT '',
			example TEXT NOT NULL DEFAULT '',
			example_en TEXT NOT NULL DEFAULT '',
			difficulty REAL NOT NULL DEFAULT 2.0,
			PRIMARY KEY (category, id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create words table: %v", err)
	}
	return nil
}
