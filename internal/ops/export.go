package ops

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/sift/internal/config"
	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/record"
	"github.com/hpungsan/sift/internal/store"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: <home>/exports/sift-<timestamp>.jsonl
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader is the first line of every export file.
type ExportHeader struct {
	SiftExport    bool   `json:"_sift_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"` // Unix milliseconds
}

const exportTimeLayout = "2006-01-02T150405.000"

// Export writes every stored record to a JSONL file. The file is staged
// next to its destination and renamed into place, so a failed export
// leaves any existing file untouched.
func Export(ctx context.Context, st store.Store, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()

	dest := input.Path
	if dest == "" {
		dir, err := exportsDir(cfg)
		if err != nil {
			return nil, err
		}
		dest = filepath.Join(dir, "sift-"+now.UTC().Format(exportTimeLayout)+jsonlExt)
	}
	if err := ValidatePath(dest, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	records, err := st.List(ctx)
	if err != nil {
		return nil, err
	}

	header := ExportHeader{
		SiftExport:    true,
		SchemaVersion: record.ExportSchemaVersion,
		ExportedAt:    now.UnixMilli(),
	}
	err = writeAtomic(dest, func(w io.Writer) error {
		return writeRecords(ctx, w, header, records)
	})
	if err != nil {
		return nil, err
	}

	return &ExportOutput{
		Path:       dest,
		Count:      len(records),
		ExportedAt: header.ExportedAt,
	}, nil
}

// writeRecords encodes the header and one line per record. HTML escaping
// is off so stored values round-trip byte for byte.
func writeRecords(ctx context.Context, w io.Writer, header ExportHeader, records []*record.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header); err != nil {
		return errors.NewInternal(err)
	}
	for _, rec := range records {
		if ctx.Err() != nil {
			return errors.NewCancelled("export")
		}
		if err := enc.Encode(record.ToExportRecord(rec)); err != nil {
			return errors.NewInternal(err)
		}
	}
	return nil
}

// writeAtomic runs fill against a buffered temp file beside dest, syncs it,
// and renames it over dest. The temp file is removed on any failure.
func writeAtomic(dest string, fill func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tmp := dest + "." + hex.EncodeToString(suffix) + ".tmp"

	f, err := createTemp(tmp)
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		if !closed {
			f.Close()
		}
		if err != nil {
			os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := fill(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errors.NewInternal(err)
	}
	if err := f.Sync(); err != nil {
		return errors.NewInternal(err)
	}

	// Windows cannot rename an open file.
	closed = true
	if err := f.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}

	// Rename follows a symlinked destination.
	if isSymlink(dest) {
		return errors.NewInvalidRequest("export path must not be a symlink")
	}
	if err := os.Rename(tmp, dest); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(dest); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}
	return nil
}
