// backend/internal/matching/matcher.go
package matching

import "sort"

// Candidate is a KB question pattern up for matching.
type Candidate struct {
	ID      string
	Pattern string
}

// Match is a candidate that cleared the minimum ratio, with its score.
type Match struct {
	ID      string
	Pattern string
	Score   float64
}

// Ratio computes a normalized similarity between two strings using the
// Ratcliff-Obershelp matching-blocks measure: 2*M/T where M is the total
// length of the recursively longest matching blocks and T the combined
// length. 1.0 for identical strings, 0.0 for disjoint character sets.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchingTotal(ra, rb, 0, len(ra), 0, len(rb))
	return 2.0 * float64(matched) / float64(total)
}

// matchingTotal sums the matching blocks: find the longest common block,
// then recurse on the pieces to its left and right.
func matchingTotal(a, b []rune, alo, ahi, blo, bhi int) int {
	ai, bj, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		matchingTotal(a, b, alo, ai, blo, bj) +
		matchingTotal(a, b, ai+size, ahi, bj+size, bhi)
}

// longestMatch finds the longest block common to a[alo:ahi] and b[blo:bhi].
// Earliest block wins on equal length, so results are deterministic.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if b[j] != a[i] {
				continue
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}

// FindMatches ranks candidates against the query. Only candidates whose
// ratio is at least minRatio are kept; results are sorted by descending
// score with ties staying in candidate order. topK <= 0 means no limit.
// Pure function of its inputs: callers pass a fresh KB snapshot each time.
func FindMatches(query string, candidates []Candidate, topK int, minRatio float64) []Match {
	var matches []Match
	for _, c := range candidates {
		score := Ratio(query, c.Pattern)
		if score >= minRatio {
			matches = append(matches, Match{ID: c.ID, Pattern: c.Pattern, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}
