package filter

import (
	stderrors "errors"
	"math"
	"strconv"
	"strings"

	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/record"
)

// Query parameter names accepted by Validate.
const (
	ParamIsPalindrome      = "is_palindrome"
	ParamMinLength         = "min_length"
	ParamMaxLength         = "max_length"
	ParamWordCount         = "word_count"
	ParamContainsCharacter = "contains_character"
)

// Params lists every recognized filter parameter in a stable order.
var Params = []string{
	ParamIsPalindrome,
	ParamMinLength,
	ParamMaxLength,
	ParamWordCount,
	ParamContainsCharacter,
}

// Spec is a set of optional constraints on records.
// A nil field imposes no constraint; present fields combine with AND.
type Spec struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
}

// IsEmpty reports whether no constraint is set.
func (s Spec) IsEmpty() bool {
	return s.IsPalindrome == nil && s.MinLength == nil && s.MaxLength == nil &&
		s.WordCount == nil && s.ContainsCharacter == nil
}

// Applied returns the present constraints keyed by parameter name.
func (s Spec) Applied() map[string]any {
	applied := make(map[string]any)
	if s.IsPalindrome != nil {
		applied[ParamIsPalindrome] = *s.IsPalindrome
	}
	if s.MinLength != nil {
		applied[ParamMinLength] = *s.MinLength
	}
	if s.MaxLength != nil {
		applied[ParamMaxLength] = *s.MaxLength
	}
	if s.WordCount != nil {
		applied[ParamWordCount] = *s.WordCount
	}
	if s.ContainsCharacter != nil {
		applied[ParamContainsCharacter] = *s.ContainsCharacter
	}
	return applied
}

// Validate parses raw request parameters into a Spec.
// Absent keys leave the matching constraint unset; unknown keys are ignored.
func Validate(params map[string]string) (Spec, error) {
	var spec Spec

	if raw, ok := params[ParamIsPalindrome]; ok {
		switch strings.ToLower(raw) {
		case "true":
			spec.IsPalindrome = Bool(true)
		case "false":
			spec.IsPalindrome = Bool(false)
		default:
			return Spec{}, errors.NewInvalidFilterValue(ParamIsPalindrome, raw, "true or false")
		}
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{ParamMinLength, &spec.MinLength},
		{ParamMaxLength, &spec.MaxLength},
		{ParamWordCount, &spec.WordCount},
	}
	for _, p := range ints {
		raw, ok := params[p.name]
		if !ok {
			continue
		}
		n, err := ParseInt(strings.TrimSpace(raw))
		if err != nil {
			return Spec{}, errors.NewInvalidFilterValue(p.name, raw, "an integer")
		}
		*p.dst = Int(n)
	}

	if raw, ok := params[ParamContainsCharacter]; ok {
		if raw == "" {
			return Spec{}, errors.NewInvalidFilterValue(ParamContainsCharacter, raw, "a non-empty string")
		}
		spec.ContainsCharacter = String(raw)
	}

	return spec, nil
}

// ParseInt parses a base-10 integer. Values beyond the int range saturate
// at math.MaxInt or math.MinInt; no stored length or word count reaches them.
func ParseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		if stderrors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(s, "-") {
				return math.MinInt, nil
			}
			return math.MaxInt, nil
		}
		return 0, err
	}
	return n, nil
}

// Matches reports whether rec satisfies every present constraint in spec.
func Matches(rec *record.Record, spec Spec) bool {
	p := rec.Properties
	if spec.IsPalindrome != nil && p.IsPalindrome != *spec.IsPalindrome {
		return false
	}
	if spec.MinLength != nil && p.Length < *spec.MinLength {
		return false
	}
	if spec.MaxLength != nil && p.Length > *spec.MaxLength {
		return false
	}
	if spec.WordCount != nil && p.WordCount != *spec.WordCount {
		return false
	}
	// Substring of the value as stored, case-sensitive.
	if spec.ContainsCharacter != nil && !strings.Contains(rec.Value, *spec.ContainsCharacter) {
		return false
	}
	return true
}

// Apply returns the records matching spec in their original order.
// The result is never nil.
func Apply(records []*record.Record, spec Spec) []*record.Record {
	out := make([]*record.Record, 0, len(records))
	if spec.IsEmpty() {
		return append(out, records...)
	}
	for _, rec := range records {
		if Matches(rec, spec) {
			out = append(out, rec)
		}
	}
	return out
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// String returns a pointer to s.
func String(s string) *string { return &s }
