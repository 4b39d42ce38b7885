package ops

import (
	"context"

	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/filter"
	"github.com/hpungsan/sift/internal/nlq"
	"github.com/hpungsan/sift/internal/store"
)

// QueryInput contains parameters for the Query operation.
type QueryInput struct {
	Query string // required, free text
}

// InterpretedQuery reports how a natural-language query was understood.
type InterpretedQuery struct {
	Original      string         `json:"original"`
	Rule          string         `json:"rule"`
	ParsedFilters map[string]any `json:"parsed_filters"`
}

// QueryOutput contains the result of the Query operation.
type QueryOutput struct {
	RecordList
	InterpretedQuery InterpretedQuery `json:"interpreted_query"`
}

// Query interprets a natural-language query and returns the matching records.
func Query(ctx context.Context, st store.Store, input QueryInput) (*QueryOutput, error) {
	// Whitespace-only text is left to the rules, which reject it as unparsable.
	if input.Query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}

	in, err := nlq.Explain(input.Query)
	if err != nil {
		return nil, err
	}

	records, err := st.List(ctx)
	if err != nil {
		return nil, err
	}

	return &QueryOutput{
		RecordList: newRecordList(filter.Apply(records, in.Filters)),
		InterpretedQuery: InterpretedQuery{
			Original:      in.Original,
			Rule:          in.Rule,
			ParsedFilters: in.Filters.Applied(),
		},
	}, nil
}
