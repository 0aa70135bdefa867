// Package tokenizer turns raw text into normalized term counts. It
// lower-cases input, splits on non-alphanumeric boundaries, and drops runs
// shorter than three runes. Classification is script-agnostic, so Latin and
// Cyrillic text tokenize the same way.
package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinTermLength is the shortest run of letters or digits kept as a term.
const MinTermLength = 3

var stopWords = map[string]struct{}{
	// Russian function words.
	"как": {}, "что": {}, "такое": {}, "где": {}, "это": {}, "для": {},
	"под": {}, "над": {}, "или": {}, "быть": {}, "при": {}, "его": {},
	// English function words.
	"the": {}, "and": {}, "are": {}, "was": {}, "for": {}, "with": {},
	"that": {}, "this": {}, "from": {}, "not": {}, "have": {}, "has": {},
	"but": {}, "you": {}, "all": {}, "can": {}, "will": {}, "what": {},
}

// Tokenize returns the count of every term in text. It is pure and
// deterministic; stop-words are NOT removed here, so the index keeps raw
// term statistics and ranking policy stays on the query path.
func Tokenize(text string) map[string]int {
	text = strings.ToLower(text)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	counts := make(map[string]int, len(words)/2)
	for _, word := range words {
		if utf8.RuneCountInString(word) < MinTermLength {
			continue
		}
		counts[word]++
	}
	return counts
}

// QueryTerms tokenizes a query string and removes stop-words. Term order
// follows first appearance in the query.
func QueryTerms(query string) []string {
	query = strings.ToLower(query)
	words := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) < MinTermLength {
			continue
		}
		if _, isStop := stopWords[word]; isStop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		terms = append(terms, word)
	}
	return terms
}

// IsStopWord reports whether the given lowercased word is in the stop set.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
