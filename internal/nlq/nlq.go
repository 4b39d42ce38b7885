// Package nlq maps a small fixed set of English phrasings onto filter specs.
//
// Rules are an ordered decision list: they are tried in order and the first
// whose trigger matches builds the result. Later rules are never consulted,
// so "single word palindromic strings" is answered by the single-word rule
// even though it also contains the palindromic trigger.
package nlq

import (
	"math"
	"strings"

	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/filter"
)

// Rule names, reported by Explain.
const (
	RuleSingleWordPalindrome = "single-word-palindrome"
	RuleLongerThan           = "longer-than"
	RuleContainingLetter     = "containing-letter"
	RulePalindromic          = "palindromic"
)

// rule pairs a trigger predicate with the builder it guards.
// Both receive the lower-cased, trimmed query.
type rule struct {
	name    string
	matches func(q string) bool
	build   func(q string) (filter.Spec, error)
}

var rules = []rule{
	{
		name: RuleSingleWordPalindrome,
		matches: func(q string) bool {
			return strings.Contains(q, "single word") && strings.Contains(q, "palindromic")
		},
		build: func(string) (filter.Spec, error) {
			return filter.Spec{WordCount: filter.Int(1), IsPalindrome: filter.Bool(true)}, nil
		},
	},
	{
		name: RuleLongerThan,
		matches: func(q string) bool {
			return strings.Contains(q, "longer than") && strings.Contains(q, "characters")
		},
		build: buildLongerThan,
	},
	{
		name: RuleContainingLetter,
		matches: func(q string) bool {
			return strings.Contains(q, "containing the letter")
		},
		build: buildContainingLetter,
	},
	{
		name: RulePalindromic,
		matches: func(q string) bool {
			return strings.Contains(q, "palindromic")
		},
		build: func(string) (filter.Spec, error) {
			return filter.Spec{IsPalindrome: filter.Bool(true)}, nil
		},
	},
}

// Interpretation is the outcome of interpreting a query.
type Interpretation struct {
	Original string      `json:"original"`
	Rule     string      `json:"rule"`
	Filters  filter.Spec `json:"parsed_filters"`
}

// Interpret maps query onto a filter spec.
func Interpret(query string) (filter.Spec, error) {
	in, err := Explain(query)
	if err != nil {
		return filter.Spec{}, err
	}
	return in.Filters, nil
}

// Explain is Interpret, also reporting which rule produced the filter.
func Explain(query string) (*Interpretation, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	for _, r := range rules {
		if !r.matches(q) {
			continue
		}
		spec, err := r.build(q)
		if err != nil {
			return nil, err
		}
		return &Interpretation{Original: query, Rule: r.name, Filters: spec}, nil
	}

	return nil, errors.NewUnparsableQuery(query)
}

// buildLongerThan takes the first all-digit token N and asks for length > N.
// An N too large for int saturates, which matches nothing.
func buildLongerThan(q string) (filter.Spec, error) {
	for _, tok := range strings.Fields(q) {
		if !isDigits(tok) {
			continue
		}
		n, err := filter.ParseInt(tok)
		if err != nil {
			return filter.Spec{}, errors.NewUnparsableNumber(q)
		}
		if n < math.MaxInt {
			n++
		}
		return filter.Spec{MinLength: filter.Int(n)}, nil
	}
	return filter.Spec{}, errors.NewUnparsableNumber(q)
}

// buildContainingLetter uses whatever follows the last "letter", unquoted.
func buildContainingLetter(q string) (filter.Spec, error) {
	letter := q[strings.LastIndex(q, "letter")+len("letter"):]
	letter = strings.NewReplacer("'", "", `"`, "").Replace(letter)
	letter = strings.TrimSpace(letter)
	if letter == "" {
		return filter.Spec{}, errors.NewUnparsableLetter(q)
	}
	return filter.Spec{ContainsCharacter: filter.String(letter)}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
