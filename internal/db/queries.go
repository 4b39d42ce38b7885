package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/hpungsan/sift/internal/analysis"
	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/record"
)

const selectColumns = `SELECT id, value, properties_json, created_at FROM strings`

// Insert stores a new record. A value (or hash) that is already stored
// yields ErrAlreadyExists; the UNIQUE indexes make this atomic.
func Insert(ctx context.Context, db *sql.DB, rec *record.Record) error {
	propsJSON, err := json.Marshal(rec.Properties)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO strings (id, value, sha256_hash, properties_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		rec.ID, rec.Value, rec.Properties.SHA256Hash, string(propsJSON), rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewAlreadyExists(rec.Value)
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByValue retrieves a record by its exact value.
func GetByValue(ctx context.Context, db *sql.DB, value string) (*record.Record, error) {
	row := db.QueryRowContext(ctx, selectColumns+` WHERE value = ?`, value)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(value)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rec, nil
}

// Exists checks whether a record with the exact value is stored.
func Exists(ctx context.Context, db *sql.DB, value string) (bool, error) {
	var exists int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM strings WHERE value = ? LIMIT 1`, value).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return true, nil
}

// DeleteByValue permanently removes the record with the exact value.
func DeleteByValue(ctx context.Context, db *sql.DB, value string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM strings WHERE value = ?`, value)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(value)
	}

	return nil
}

// ListAll returns every record in creation (ID) order.
func ListAll(ctx context.Context, db *sql.DB) ([]*record.Record, error) {
	rows, err := StreamAll(ctx, db)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*record.Record, 0)
	for rows.Next() {
		rec, err := ScanRecordFromRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}

// StreamAll returns a row cursor over every record in creation (ID) order.
// The caller must close the rows.
func StreamAll(ctx context.Context, db *sql.DB) (*sql.Rows, error) {
	rows, err := db.QueryContext(ctx, selectColumns+` ORDER BY id ASC`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// Count returns the number of stored records.
func Count(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strings`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a single row into a Record.
func scanRecord(row *sql.Row) (*record.Record, error) {
	return scanInto(row)
}

// ScanRecordFromRows scans the current row of a cursor into a Record.
func ScanRecordFromRows(rows *sql.Rows) (*record.Record, error) {
	return scanInto(rows)
}

func scanInto(s scanner) (*record.Record, error) {
	var (
		rec       record.Record
		propsJSON string
		createdAt int64
	)

	if err := s.Scan(&rec.ID, &rec.Value, &propsJSON, &createdAt); err != nil {
		return nil, err
	}

	var props analysis.Properties
	if err := json.Unmarshal([]byte(propsJSON), &props); err != nil {
		return nil, err
	}
	if props.CharacterFrequencyMap == nil {
		props.CharacterFrequencyMap = map[string]int{}
	}
	rec.Properties = props
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()

	return &rec, nil
}
