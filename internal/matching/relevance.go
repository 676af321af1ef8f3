package matching

import (
	"regexp"
	"strings"
)

// RelevanceFilter vetoes matches that score well numerically but share too
// little vocabulary with the query. It is an interface so the keyword
// heuristic can later be swapped for a semantic check without touching the
// decision engine.
type RelevanceFilter interface {
	IsRelevant(query, pattern string) bool
}

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// Words carrying no substantive meaning for overlap purposes.
var stopWords = map[string]bool{
	"the": true, "is": true, "and": true, "a": true, "an": true,
	"to": true, "for": true, "in": true, "of": true, "on": true,
	"are": true, "you": true, "we": true, "do": true, "have": true,
}

// KeywordOverlapFilter treats a pattern as relevant when it shares at least
// minOverlap non-stopword tokens with the query. Purely lexical: paraphrases
// and synonyms are not understood, which is a known limitation.
type KeywordOverlapFilter struct {
	minOverlap int
}

func NewKeywordOverlapFilter() *KeywordOverlapFilter {
	return &KeywordOverlapFilter{minOverlap: 2}
}

func (f *KeywordOverlapFilter) IsRelevant(query, pattern string) bool {
	queryWords := tokenize(query)
	patternWords := tokenize(pattern)

	overlap := 0
	for word := range queryWords {
		if patternWords[word] {
			overlap++
		}
	}
	return overlap >= f.minOverlap
}

func tokenize(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if !stopWords[w] {
			words[w] = true
		}
	}
	return words
}
