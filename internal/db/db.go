package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/sift/internal/config"
	_ "modernc.org/sqlite"
)

// FileName is the database file created under the base directory.
const FileName = "sift.db"

// migrations[i] moves the schema from user_version i to i+1.
var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS strings (
	  id              TEXT PRIMARY KEY,
	  value           TEXT NOT NULL,
	  sha256_hash     TEXT NOT NULL,
	  properties_json TEXT NOT NULL,
	  created_at      INTEGER NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_strings_value
	ON strings(value);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_strings_sha256_hash
	ON strings(sha256_hash);
	`,
}

// CurrentSchemaVersion is the user_version after every migration has run.
var CurrentSchemaVersion = len(migrations)

// Init opens (creating if needed) baseDir/sift.db in WAL mode and brings
// its schema up to date. baseDir and baseDir/exports are created 0700.
func Init(baseDir string) (*sql.DB, error) {
	if err := ensurePrivateDir(baseDir); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	if err := ensurePrivateDir(filepath.Join(baseDir, "exports")); err != nil {
		return nil, fmt.Errorf("failed to create exports directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, FileName)
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, step := range []func(*sql.DB) error{requireWAL, migrate} {
		if err := step(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	_ = os.Chmod(dbPath, 0600)
	return db, nil
}

// dsn carries the pragmas in the connection string so every pooled
// connection gets them.
func dsn(path string) string {
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func ensurePrivateDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	// MkdirAll leaves existing directories alone and honors umask.
	_ = os.Chmod(dir, 0700)
	return nil
}

// ConfigurePool applies the non-zero pool limits from cfg.
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}
	for v := version; v < len(migrations); v++ {
		if _, err := db.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migration %d failed: %w", v+1, err)
		}
		if err := SetUserVersion(db, v+1); err != nil {
			return err
		}
	}
	return nil
}

func requireWAL(db *sql.DB) error {
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&mode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if mode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", mode)
	}
	return nil
}

// GetUserVersion reads the schema version from the user_version pragma.
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion writes the user_version pragma.
func SetUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
