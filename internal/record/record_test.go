package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/sift/internal/analysis"
)

func TestNew(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.FixedZone("X", 3600))

	rec := New("01ID", "level", now)

	assert.Equal(t, "01ID", rec.ID)
	assert.Equal(t, "level", rec.Value)
	assert.Equal(t, analysis.Analyze("level"), rec.Properties)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.Equal(t, 123000000, rec.CreatedAt.Nanosecond())
}

func TestExportRecord_RoundTrip(t *testing.T) {
	now := time.Now()
	rec := New("01ID", "hello world", now)

	got := ToExportRecord(rec).ToRecord(time.Time{})

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Value, got.Value)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, rec.Properties, got.Properties)
}

// Imported properties come from the value, never from the file.
func TestExportRecord_ToRecordRecomputes(t *testing.T) {
	value := "racecar"
	stale := analysis.Analyze("something else")
	er := &ExportRecord{ID: "01ID", Value: &value, Properties: &stale, CreatedAt: 1700000000000}

	rec := er.ToRecord(time.Now())

	require.True(t, rec.Properties.IsPalindrome)
	assert.Equal(t, analysis.Hash("racecar"), rec.Properties.SHA256Hash)
	assert.Equal(t, int64(1700000000000), rec.CreatedAt.UnixMilli())
}

func TestExportRecord_ToRecordDefaultsCreatedAt(t *testing.T) {
	value := "x"
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rec := (&ExportRecord{Value: &value}).ToRecord(now)

	assert.True(t, now.Equal(rec.CreatedAt))
	assert.Empty(t, rec.ID)
}
