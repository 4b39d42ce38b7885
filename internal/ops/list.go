package ops

import (
	"context"

	"github.com/hpungsan/sift/internal/filter"
	"github.com/hpungsan/sift/internal/store"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	// Params holds raw filter parameters keyed by name (see filter.Params).
	// Unrecognized keys are ignored.
	Params map[string]string
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	RecordList
	FiltersApplied map[string]any `json:"filters_applied"`
}

// List returns the stored records matching the structured filters, in creation order.
func List(ctx context.Context, st store.Store, input ListInput) (*ListOutput, error) {
	spec, err := filter.Validate(input.Params)
	if err != nil {
		return nil, err
	}

	records, err := st.List(ctx)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		RecordList:     newRecordList(filter.Apply(records, spec)),
		FiltersApplied: spec.Applied(),
	}, nil
}
