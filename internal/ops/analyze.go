package ops

import "github.com/hpungsan/sift/internal/analysis"

// AnalyzeInput contains parameters for the Analyze operation.
type AnalyzeInput struct {
	Value string
}

// AnalyzeOutput is the property bundle for a value that was not stored.
type AnalyzeOutput struct {
	Value      string              `json:"value"`
	Properties analysis.Properties `json:"properties"`
}

// Analyze computes properties without touching the store. Any string,
// including the empty string, is accepted. Invalid UTF-8 is analyzed as
// given: each bad byte counts as one U+FFFD character.
func Analyze(input AnalyzeInput) *AnalyzeOutput {
	return &AnalyzeOutput{Value: input.Value, Properties: analysis.Analyze(input.Value)}
}
