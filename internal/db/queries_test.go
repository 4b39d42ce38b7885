package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/record"
)

func openQueriesTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRecord(id, value string) *record.Record {
	return record.New(id, value, time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.UTC))
}

func TestInsertAndGetByValue(t *testing.T) {
	ctx := context.Background()
	db := openQueriesTestDB(t)

	rec := newTestRecord("01AAA", "racecar")
	if err := Insert(ctx, db, rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := GetByValue(ctx, db, "racecar")
	if err != nil {
		t.Fatalf("GetByValue failed: %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("ID = %q, want %q", got.ID, rec.ID)
	}
	if got.Value != rec.Value {
		t.Errorf("Value = %q, want %q", got.Value, rec.Value)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}
	if got.Properties.SHA256Hash != rec.Properties.SHA256Hash {
		t.Errorf("SHA256Hash = %q, want %q", got.Properties.SHA256Hash, rec.Properties.SHA256Hash)
	}
	if !got.Properties.IsPalindrome {
		t.Error("IsPalindrome = false, want true")
	}
	if got.Properties.CharacterFrequencyMap["r"] != 2 {
		t.Errorf("CharacterFrequencyMap[r] = %d, want 2", got.Properties.CharacterFrequencyMap["r"])
	}
}

func TestGetByValue_NotFound(t *testing.T) {
	db := openQueriesTestDB(t)

	_, err := GetByValue(context.Background(), db, "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByValue() error = %v, want NOT_FOUND", err)
	}
}

func TestGetByValue_CaseSensitive(t *testing.T) {
	ctx := context.Background()
	db := openQueriesTestDB(t)

	if err := Insert(ctx, db, newTestRecord("01AAA", "Hello")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if _, err := GetByValue(ctx, db, "hello"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByValue(hello) error = %v, want NOT_FOUND", err)
	}
}

func TestInsert_UniqueConstraint(t *testing.T) {
	ctx := context.Background()
	db := openQueriesTestDB(t)

	if err := Insert(ctx, db, newTestRecord("01AAA", "same")); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	err := Insert(ctx, db, newTestRecord("01BBB", "same"))
	if !errors.Is(err, errors.ErrAlreadyExists) {
		t.Fatalf("second Insert error = %v, want ALREADY_EXISTS", err)
	}

	// A differently cased value is a different string.
	if err := Insert(ctx, db, newTestRecord("01CCC", "SAME")); err != nil {
		t.Fatalf("Insert(SAME) failed: %v", err)
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	db := openQueriesTestDB(t)

	exists, err := Exists(ctx, db, "abc")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Exists = true before insert")
	}

	if err := Insert(ctx, db, newTestRecord("01AAA", "abc")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	exists, err = Exists(ctx, db, "abc")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Exists = false after insert")
	}
}

func TestDeleteByValue(t *testing.T) {
	ctx := context.Background()
	db := openQueriesTestDB(t)

	if err := Insert(ctx, db, newTestRecord("01AAA", "gone soon")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := DeleteByValue(ctx, db, "gone soon"); err != nil {
		t.Fatalf("DeleteByValue failed: %v", err)
	}
	if _, err := GetByValue(ctx, db, "gone soon"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByValue after delete error = %v, want NOT_FOUND", err)
	}

	// Deleting again reports NOT_FOUND.
	if err := DeleteByValue(ctx, db, "gone soon"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second DeleteByValue error = %v, want NOT_FOUND", err)
	}

	// The value can be created again after deletion.
	if err := Insert(ctx, db, newTestRecord("01BBB", "gone soon")); err != nil {
		t.Errorf("re-Insert failed: %v", err)
	}
}

func TestListAll_OrderedByID(t *testing.T) {
	ctx := context.Background()
	db := openQueriesTestDB(t)

	for _, r := range []*record.Record{
		newTestRecord("01CCC", "third"),
		newTestRecord("01AAA", "first"),
		newTestRecord("01BBB", "second"),
	} {
		if err := Insert(ctx, db, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	records, err := ListAll(ctx, db)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(records) != len(want) {
		t.Fatalf("len(records) = %d, want %d", len(records), len(want))
	}
	for i, w := range want {
		if records[i].Value != w {
			t.Errorf("records[%d].Value = %q, want %q", i, records[i].Value, w)
		}
	}

	n, err := Count(ctx, db)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}

func TestListAll_Empty(t *testing.T) {
	db := openQueriesTestDB(t)

	records, err := ListAll(context.Background(), db)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if records == nil {
		t.Error("ListAll returned nil, want empty slice")
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

func TestQueries_CancelledContext(t *testing.T) {
	db := openQueriesTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ListAll(ctx, db); err == nil {
		t.Error("ListAll with cancelled context returned nil error")
	}
}
