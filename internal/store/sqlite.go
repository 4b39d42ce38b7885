package store

import (
	"context"
	"database/sql"

	"github.com/hpungsan/sift/internal/config"
	"github.com/hpungsan/sift/internal/db"
	"github.com/hpungsan/sift/internal/record"
)

// SQLite is the Store backed by internal/db.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite initializes the database under cfg.BaseDir and applies pool limits.
func OpenSQLite(cfg *config.Config) (*SQLite, error) {
	database, err := db.Init(cfg.BaseDir)
	if err != nil {
		return nil, err
	}
	db.ConfigurePool(database, cfg)
	return &SQLite{db: database}, nil
}

func (s *SQLite) Create(ctx context.Context, rec *record.Record) error {
	return db.Insert(ctx, s.db, rec)
}

func (s *SQLite) Get(ctx context.Context, value string) (*record.Record, error) {
	return db.GetByValue(ctx, s.db, value)
}

func (s *SQLite) Exists(ctx context.Context, value string) (bool, error) {
	return db.Exists(ctx, s.db, value)
}

func (s *SQLite) Delete(ctx context.Context, value string) error {
	return db.DeleteByValue(ctx, s.db, value)
}

func (s *SQLite) List(ctx context.Context) ([]*record.Record, error) {
	return db.ListAll(ctx, s.db)
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	return db.Count(ctx, s.db)
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
