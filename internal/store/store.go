// Package store defines the record store used by every operation and
// selects a backend from configuration.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/hpungsan/sift/internal/config"
	"github.com/hpungsan/sift/internal/record"
	"github.com/hpungsan/sift/internal/store/badgerstore"
)

// Store persists records keyed by their exact value.
//
// Create is atomic create-if-absent: of any number of concurrent creates
// for one value, exactly one succeeds and the rest get ALREADY_EXISTS.
type Store interface {
	Create(ctx context.Context, rec *record.Record) error
	Get(ctx context.Context, value string) (*record.Record, error)
	Exists(ctx context.Context, value string) (bool, error)
	Delete(ctx context.Context, value string) error

	// List returns every record in ID (creation) order. Never nil.
	List(ctx context.Context) ([]*record.Record, error)
	Count(ctx context.Context) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

// Ensure both backends implement Store
var (
	_ Store = (*SQLite)(nil)
	_ Store = (*badgerstore.Store)(nil)
)

// BadgerDirName is the Badger data directory under the base directory.
const BadgerDirName = "badger"

// Open creates the store selected by cfg.Backend under cfg.BaseDir.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		s, err := OpenSQLite(cfg)
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"backend": config.BackendSQLite, "dir": cfg.BaseDir}).Debug("store opened")
		return s, nil

	case config.BackendBadger:
		exportsDir := cfg.ExportsDir()
		if err := os.MkdirAll(exportsDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create exports directory: %w", err)
		}
		_ = os.Chmod(exportsDir, 0700)

		dir := filepath.Join(cfg.BaseDir, BadgerDirName)
		s, err := badgerstore.Open(badgerstore.Options{Dir: dir})
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"backend": config.BackendBadger, "dir": dir}).Debug("store opened")
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}
}
