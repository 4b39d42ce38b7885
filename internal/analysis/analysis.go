package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Properties is the set of descriptive fields derived from a string.
// It is computed once when a record is created and never mutated afterward.
type Properties struct {
	// Length is the character count (runes, not bytes)
	Length int `json:"length"`

	// IsPalindrome reports whether the lower-cased string reads the same reversed
	IsPalindrome bool `json:"is_palindrome"`

	// UniqueCharacters is the number of distinct runes (case-sensitive)
	UniqueCharacters int `json:"unique_characters"`

	// WordCount is the number of whitespace-delimited tokens
	WordCount int `json:"word_count"`

	// SHA256Hash is the lowercase hex digest of the exact UTF-8 bytes
	SHA256Hash string `json:"sha256_hash"`

	// CharacterFrequencyMap maps each rune (as a string) to its occurrence count
	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
}

// Analyze derives the property bundle for value. It never fails.
func Analyze(value string) Properties {
	freq := make(map[string]int)
	for _, r := range value {
		freq[string(r)]++
	}

	return Properties{
		Length:                utf8.RuneCountInString(value),
		IsPalindrome:          IsPalindrome(value),
		UniqueCharacters:      len(freq),
		WordCount:             CountWords(value),
		SHA256Hash:            Hash(value),
		CharacterFrequencyMap: freq,
	}
}

// Hash returns the lowercase hex SHA-256 digest of value's UTF-8 bytes.
func Hash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// IsPalindrome compares the lower-cased value against its rune-wise reversal.
func IsPalindrome(value string) bool {
	runes := []rune(strings.ToLower(value))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if runes[i] != runes[j] {
			return false
		}
	}
	return true
}

// CountWords counts maximal runs of non-whitespace characters.
func CountWords(value string) int {
	return len(strings.FieldsFunc(value, isWordSeparator))
}

// isWordSeparator is unicode.IsSpace plus the ASCII information separators
// U+001C..U+001F, which Unicode classes as paragraph and segment separators.
func isWordSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
