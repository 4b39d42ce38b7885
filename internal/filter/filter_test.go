package filter

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/record"
)

func makeRecords(values ...string) []*record.Record {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	recs := make([]*record.Record, len(values))
	for i, v := range values {
		recs[i] = record.New(v, v, now.Add(time.Duration(i)*time.Second))
	}
	return recs
}

func values(recs []*record.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Value
	}
	return out
}

func TestValidate_Empty(t *testing.T) {
	spec, err := Validate(map[string]string{})
	require.NoError(t, err)
	assert.True(t, spec.IsEmpty())
	assert.Empty(t, spec.Applied())
}

func TestValidate_AllParams(t *testing.T) {
	spec, err := Validate(map[string]string{
		"is_palindrome":      "TRUE",
		"min_length":         "3",
		"max_length":         " 10 ",
		"word_count":         "1",
		"contains_character": "a",
		"unrelated":          "ignored",
	})
	require.NoError(t, err)

	want := Spec{
		IsPalindrome:      Bool(true),
		MinLength:         Int(3),
		MaxLength:         Int(10),
		WordCount:         Int(1),
		ContainsCharacter: String("a"),
	}
	if diff := cmp.Diff(want, spec); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[string]any{
		"is_palindrome":      true,
		"min_length":         3,
		"max_length":         10,
		"word_count":         1,
		"contains_character": "a",
	}, spec.Applied())
}

func TestValidate_PalindromeFalse(t *testing.T) {
	spec, err := Validate(map[string]string{"is_palindrome": "False"})
	require.NoError(t, err)
	require.NotNil(t, spec.IsPalindrome)
	assert.False(t, *spec.IsPalindrome)
}

func TestValidate_MultiCharacterContains(t *testing.T) {
	spec, err := Validate(map[string]string{"contains_character": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", *spec.ContainsCharacter)
}

func TestValidate_OutOfRangeSaturates(t *testing.T) {
	spec, err := Validate(map[string]string{
		"min_length": "99999999999999999999",
		"max_length": "-99999999999999999999",
	})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, *spec.MinLength)
	assert.Equal(t, math.MinInt, *spec.MaxLength)

	assert.Empty(t, Apply(makeRecords("a", "level", "a much longer value"), Spec{MinLength: spec.MinLength}))
	assert.Empty(t, Apply(makeRecords("a", "level"), Spec{MaxLength: spec.MaxLength}))
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"42", 42, true},
		{"-7", -7, true},
		{"99999999999999999999", math.MaxInt, true},
		{"-99999999999999999999", math.MinInt, true},
		{"4x", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInt(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		param  string
	}{
		{"palindrome yes", map[string]string{"is_palindrome": "yes"}, "is_palindrome"},
		{"palindrome empty", map[string]string{"is_palindrome": ""}, "is_palindrome"},
		{"palindrome one", map[string]string{"is_palindrome": "1"}, "is_palindrome"},
		{"min_length word", map[string]string{"min_length": "abc"}, "min_length"},
		{"min_length float", map[string]string{"min_length": "2.5"}, "min_length"},
		{"max_length empty", map[string]string{"max_length": ""}, "max_length"},
		{"word_count word", map[string]string{"word_count": "one"}, "word_count"},
		{"contains empty", map[string]string{"contains_character": ""}, "contains_character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.params)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidFilterValue), "got %v", err)

			sErr, ok := err.(*errors.SiftError)
			require.True(t, ok)
			assert.Equal(t, tt.param, sErr.Details["parameter"])
		})
	}
}

func TestMatches(t *testing.T) {
	rec := record.New("id", "Racecar", time.Now())

	tests := []struct {
		name string
		spec Spec
		want bool
	}{
		{"no constraints", Spec{}, true},
		{"palindrome true", Spec{IsPalindrome: Bool(true)}, true},
		{"palindrome false", Spec{IsPalindrome: Bool(false)}, false},
		{"min length equal", Spec{MinLength: Int(7)}, true},
		{"min length above", Spec{MinLength: Int(8)}, false},
		{"max length equal", Spec{MaxLength: Int(7)}, true},
		{"max length below", Spec{MaxLength: Int(6)}, false},
		{"word count one", Spec{WordCount: Int(1)}, true},
		{"word count two", Spec{WordCount: Int(2)}, false},
		{"contains lower", Spec{ContainsCharacter: String("c")}, true},
		{"contains upper present", Spec{ContainsCharacter: String("R")}, true},
		{"contains trailing lower", Spec{ContainsCharacter: String("r")}, true},
		{"contains missing upper", Spec{ContainsCharacter: String("A")}, false},
		{"contains substring", Spec{ContainsCharacter: String("ceca")}, true},
		{"and all hold", Spec{IsPalindrome: Bool(true), MinLength: Int(7), WordCount: Int(1)}, true},
		{"and one fails", Spec{IsPalindrome: Bool(true), MinLength: Int(7), WordCount: Int(2)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(rec, tt.spec))
		})
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	recs := makeRecords("level", "hello world", "noon", "abc", "Racecar", "a b c")

	got := Apply(recs, Spec{IsPalindrome: Bool(true)})
	if diff := cmp.Diff([]string{"level", "noon", "Racecar"}, values(got)); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}

	got = Apply(recs, Spec{MinLength: Int(4), MaxLength: Int(5)})
	if diff := cmp.Diff([]string{"level", "noon", "a b c"}, values(got)); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_Idempotent(t *testing.T) {
	recs := makeRecords("level", "hello world", "noon", "abc", "Racecar", "a b c")
	specs := []Spec{
		{},
		{IsPalindrome: Bool(true)},
		{WordCount: Int(1), ContainsCharacter: String("e")},
		{MinLength: Int(100)},
	}

	for _, spec := range specs {
		once := Apply(recs, spec)
		twice := Apply(once, spec)
		if diff := cmp.Diff(values(once), values(twice)); diff != "" {
			t.Errorf("Apply() not idempotent for %+v (-once +twice):\n%s", spec, diff)
		}
	}
}

func TestApply_EmptySpecCopies(t *testing.T) {
	recs := makeRecords("b", "a", "c")
	got := Apply(recs, Spec{})
	assert.Equal(t, []string{"b", "a", "c"}, values(got))

	got[0] = nil
	assert.NotNil(t, recs[0], "Apply must return a new slice")
}

func TestApply_EmptyInput(t *testing.T) {
	got := Apply(nil, Spec{})
	require.NotNil(t, got)
	assert.Len(t, got, 0)

	got = Apply(makeRecords("abc"), Spec{MinLength: Int(10)})
	require.NotNil(t, got)
	assert.Len(t, got, 0)
}
