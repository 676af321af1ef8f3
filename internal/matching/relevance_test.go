package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordOverlapFilter(t *testing.T) {
	filter := NewKeywordOverlapFilter()

	tests := []struct {
		name     string
		query    string
		pattern  string
		relevant bool
	}{
		{
			name:     "shared vocabulary",
			query:    "What are your hours?",
			pattern:  "What are your hours of operation?",
			relevant: true,
		},
		{
			name:     "case and punctuation ignored",
			query:    "EYELASH extensions, please!",
			pattern:  "Do you offer eyelash extensions?",
			relevant: true,
		},
		{
			name:     "unrelated pattern",
			query:    "Do you offer eyelash extensions?",
			pattern:  "What are your hours?",
			relevant: false,
		},
		{
			name:     "single shared word is not enough",
			query:    "haircut prices",
			pattern:  "haircut appointments",
			relevant: false,
		},
		{
			name:     "stopwords do not count as overlap",
			query:    "do you have the thing",
			pattern:  "do you have a widget",
			relevant: false,
		},
		{
			name:     "empty query",
			query:    "",
			pattern:  "What are your hours?",
			relevant: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.relevant, filter.IsRelevant(tt.query, tt.pattern))
		})
	}
}

func TestTokenizeDropsStopwords(t *testing.T) {
	words := tokenize("Do you have the hours for an appointment?")

	assert.True(t, words["hours"])
	assert.True(t, words["appointment"])
	assert.False(t, words["do"])
	assert.False(t, words["you"])
	assert.False(t, words["the"])
	assert.False(t, words["for"])
	assert.False(t, words["an"])
}
