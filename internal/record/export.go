package record

import (
	"time"

	"github.com/hpungsan/sift/internal/analysis"
)

// ExportSchemaVersion is written into the header line of every export file.
const ExportSchemaVersion = "1.0"

// ExportRecord represents a record in JSONL export format.
// It is used for parsing export files during import.
type ExportRecord struct {
	// Header detection field - true only for header line
	SiftExport bool `json:"_sift_export,omitempty"`

	// Header fields (only present in header line)
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	// Record fields
	ID         string               `json:"id,omitempty"`
	Value      *string              `json:"value,omitempty"`
	Properties *analysis.Properties `json:"properties,omitempty"` // IGNORED on import, recomputed
	CreatedAt  int64                `json:"created_at,omitempty"`  // Unix milliseconds
}

// ToRecord converts an ExportRecord to a Record, recomputing properties from the value.
// A zero CreatedAt falls back to now.
func (r *ExportRecord) ToRecord(now time.Time) *Record {
	createdAt := now
	if r.CreatedAt != 0 {
		createdAt = time.UnixMilli(r.CreatedAt)
	}
	value := ""
	if r.Value != nil {
		value = *r.Value
	}
	return New(r.ID, value, createdAt)
}

// ToExportRecord converts a Record to an ExportRecord for export.
func ToExportRecord(rec *Record) *ExportRecord {
	value := rec.Value
	props := rec.Properties
	return &ExportRecord{
		ID:         rec.ID,
		Value:      &value,
		Properties: &props,
		CreatedAt:  rec.CreatedAt.UnixMilli(),
	}
}
