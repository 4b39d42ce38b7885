package record

import (
	"time"

	"github.com/hpungsan/sift/internal/analysis"
)

// Record is a stored string together with its analyzed properties.
type Record struct {
	// ID is a ULID assigned at creation; IDs sort by creation time
	ID string `json:"id"`

	// Value is the string exactly as submitted (unique across records)
	Value string `json:"value"`

	// Properties is computed from Value once, at creation
	Properties analysis.Properties `json:"properties"`

	// CreatedAt is the UTC creation time, truncated to milliseconds
	CreatedAt time.Time `json:"created_at"`
}

// New builds a record for value, analyzing it and stamping it with now.
func New(id, value string, now time.Time) *Record {
	return &Record{
		ID:         id,
		Value:      value,
		Properties: analysis.Analyze(value),
		CreatedAt:  now.UTC().Truncate(time.Millisecond),
	}
}
