package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	log "github.com/sirupsen/logrus"

	"github.com/hpungsan/sift/internal/config"
	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/record"
	"github.com/hpungsan/sift/internal/store"
)

// maxImportLine bounds a single JSONL line (one record).
const maxImportLine = 16 << 20

// Import line error codes.
const (
	ImportParseError    = "PARSE_ERROR"
	ImportInvalidRecord = "INVALID_RECORD"
	ImportReadError     = "READ_ERROR"
	ImportInsertFailed  = "INSERT_FAILED"
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string // required
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents a line that could not be imported.
type ImportError struct {
	Line    int    `json:"line"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// importLine is a parsed record and the line it came from.
type importLine struct {
	line int
	rec  record.ExportRecord
}

// Import loads records from a JSONL export file.
//
// Properties in the file are ignored and recomputed from each value on a
// worker pool; records are then written in file order. Values that are
// already stored are skipped.
func Import(ctx context.Context, st store.Store, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openImportFile(input.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines, importErrors := parseExportFile(bufio.NewScanner(file))

	records, err := analyzeAll(ctx, lines, importWorkers(cfg))
	if err != nil {
		return nil, err
	}

	out := &ImportOutput{Errors: importErrors}
	out.Skipped = len(importErrors)

	for i, rec := range records {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("import")
		default:
		}

		// Minted here, not on the pool, so IDs follow file order.
		if rec.ID == "" {
			rec.ID = newID(rec.CreatedAt)
		}

		if err := createImported(ctx, st, rec); err != nil {
			if errors.Is(err, errors.ErrAlreadyExists) {
				out.Skipped++
				continue
			}
			if errors.Is(err, errors.ErrCancelled) {
				return nil, err
			}
			out.Errors = append(out.Errors, ImportError{
				Line:    lines[i].line,
				ID:      rec.ID,
				Code:    ImportInsertFailed,
				Message: err.Error(),
			})
			out.Skipped++
			continue
		}
		out.Imported++
	}

	if out.Errors == nil {
		out.Errors = []ImportError{}
	}

	log.WithFields(log.Fields{
		"path":     input.Path,
		"imported": out.Imported,
		"skipped":  out.Skipped,
		"errors":   len(out.Errors),
	}).Info("import finished")

	return out, nil
}

// createImported stores rec. An ID that collides with a different stored
// value gets a fresh ULID; a stored value stays ALREADY_EXISTS.
func createImported(ctx context.Context, st store.Store, rec *record.Record) error {
	err := st.Create(ctx, rec)
	if !errors.Is(err, errors.ErrAlreadyExists) {
		return err
	}
	exists, existsErr := st.Exists(ctx, rec.Value)
	if existsErr != nil {
		return existsErr
	}
	if exists {
		return err
	}
	rec.ID = newID(rec.CreatedAt)
	return st.Create(ctx, rec)
}

// parseExportFile reads JSONL lines, skipping the header.
func parseExportFile(scanner *bufio.Scanner) ([]importLine, []ImportError) {
	var lines []importLine
	var parseErrors []ImportError

	scanner.Buffer(make([]byte, 0, 64*1024), maxImportLine)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec record.ExportRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    ImportParseError,
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		if rec.SiftExport {
			continue
		}

		if rec.Value == nil || *rec.Value == "" {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				ID:      rec.ID,
				Code:    ImportInvalidRecord,
				Message: "missing value field",
			})
			continue
		}

		lines = append(lines, importLine{line: lineNum, rec: rec})
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			Code:    ImportReadError,
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return lines, parseErrors
}

// analyzeAll builds a record per line on an ants pool, preserving order.
func analyzeAll(ctx context.Context, lines []importLine, workers int) ([]*record.Record, error) {
	records := make([]*record.Record, len(lines))
	if len(lines) == 0 {
		return records, nil
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer pool.Release()

	now := time.Now()
	var wg sync.WaitGroup
	for i := range lines {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			records[i] = lines[i].rec.ToRecord(now)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, errors.NewInternal(err)
		}
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, errors.NewCancelled("import")
	}
	return records, nil
}

func importWorkers(cfg *config.Config) int {
	if cfg != nil && cfg.ImportWorkers > 0 {
		return cfg.ImportWorkers
	}
	return 1
}
