package ops

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/record"
	"github.com/hpungsan/sift/internal/store"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Value string // required, stored exactly as given
}

// Create analyzes a new string and stores it.
// Returns ALREADY_EXISTS if the exact value is already stored.
func Create(ctx context.Context, st store.Store, input CreateInput) (*record.Record, error) {
	if input.Value == "" {
		return nil, errors.NewInvalidRequest("value is required")
	}
	// JSON encoding would replace invalid bytes, leaving a stored value
	// that no longer matches its hash.
	if !utf8.ValidString(input.Value) {
		return nil, errors.NewInvalidValueType("value", "valid UTF-8 text")
	}

	exists, err := st.Exists(ctx, input.Value)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.NewAlreadyExists(input.Value)
	}

	now := time.Now()
	rec := record.New(newID(now), input.Value, now)

	// The store re-checks atomically; a concurrent create surfaces here as ALREADY_EXISTS.
	if err := st.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
