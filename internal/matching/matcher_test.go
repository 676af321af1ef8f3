package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical strings", "what are your hours", "what are your hours", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "hours", "", 0.0},
		{"disjoint", "abc", "xyz", 0.0},
		{"shared block", "abcd", "bcde", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"Do you offer eyelash extensions?", "Do you do eyelash extensions?"},
		{"what are your hours", "what are your hours of operation"},
		{"how much is a haircut", "gift cards"},
	}

	for _, p := range pairs {
		score := Ratio(p[0], p[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestRatioDifferingStringsBelowOne(t *testing.T) {
	assert.Less(t, Ratio("eyelash extensions", "eyelash extension"), 1.0)
}

func TestRatioOrdersByCloseness(t *testing.T) {
	query := "do you offer eyelash extensions"
	near := Ratio(query, "do you offer eyelash extension")
	far := Ratio(query, "where are you located")
	assert.Greater(t, near, far)
}

func TestRatioDeterministic(t *testing.T) {
	a, b := "Can I cancel my appointment?", "How do I cancel an appointment?"
	first := Ratio(a, b)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Ratio(a, b))
	}
}

func TestFindMatches(t *testing.T) {
	candidates := []Candidate{
		{ID: "1", Pattern: "aaaa"},
		{ID: "2", Pattern: "aaab"},
		{ID: "3", Pattern: "bbbb"},
	}

	matches := FindMatches("aaaa", candidates, 0, 0.0)

	assert.Len(t, matches, 3)
	assert.Equal(t, "1", matches[0].ID)
	assert.Equal(t, 1.0, matches[0].Score)
	assert.Equal(t, "2", matches[1].ID)
	assert.Equal(t, "3", matches[2].ID)
	assert.Equal(t, 0.0, matches[2].Score)
}

func TestFindMatchesMinRatio(t *testing.T) {
	candidates := []Candidate{
		{ID: "1", Pattern: "aaaa"},
		{ID: "2", Pattern: "bbbb"},
	}

	matches := FindMatches("aaaa", candidates, 0, 0.5)

	assert.Len(t, matches, 1)
	assert.Equal(t, "1", matches[0].ID)
}

func TestFindMatchesTopK(t *testing.T) {
	candidates := []Candidate{
		{ID: "1", Pattern: "aaaa"},
		{ID: "2", Pattern: "aaab"},
		{ID: "3", Pattern: "aaba"},
	}

	matches := FindMatches("aaaa", candidates, 2, 0.0)

	assert.Len(t, matches, 2)
	assert.Equal(t, "1", matches[0].ID)
}

func TestFindMatchesStableTies(t *testing.T) {
	candidates := []Candidate{
		{ID: "first", Pattern: "same pattern"},
		{ID: "second", Pattern: "same pattern"},
	}

	matches := FindMatches("same pattern", candidates, 0, 0.0)

	assert.Len(t, matches, 2)
	assert.Equal(t, "first", matches[0].ID)
	assert.Equal(t, "second", matches[1].ID)
}

func TestFindMatchesEmptyCandidates(t *testing.T) {
	matches := FindMatches("anything", nil, 3, 0.0)
	assert.Empty(t, matches)
}
