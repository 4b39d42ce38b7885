package ops

import (
	"context"

	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/record"
	"github.com/hpungsan/sift/internal/store"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	Value string // required, exact match
}

// Fetch retrieves the record for an exact value.
func Fetch(ctx context.Context, st store.Store, input FetchInput) (*record.Record, error) {
	if input.Value == "" {
		return nil, errors.NewInvalidRequest("value is required")
	}
	return st.Get(ctx, input.Value)
}
