package ops

import (
	"context"

	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/store"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	Value string // required, exact match
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	Value   string `json:"value"`
}

// Delete permanently removes the record for an exact value.
func Delete(ctx context.Context, st store.Store, input DeleteInput) (*DeleteOutput, error) {
	if input.Value == "" {
		return nil, errors.NewInvalidRequest("value is required")
	}
	if err := st.Delete(ctx, input.Value); err != nil {
		return nil, err
	}
	return &DeleteOutput{Deleted: true, Value: input.Value}, nil
}
