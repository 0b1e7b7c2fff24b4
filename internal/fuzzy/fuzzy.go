// Package fuzzy implements the character-subsequence matcher behind the
// command palette.
//
// The matcher is a single greedy left-to-right pass: each query character is
// matched against the earliest remaining haystack character that equals it.
// There is no backtracking, so two haystacks that both contain the query are
// ranked by the bonuses collected at the positions the scan happens to pick,
// not by a globally optimal alignment.
package fuzzy

import "unicode"

// Scoring constants.
const (
	BonusStart       = 15 // match at haystack index 0
	BonusWordStart   = 10 // match right after a word separator
	BonusConsecutive = 5  // match directly after the previous match
)

// Match is a successful subsequence match.
type Match struct {
	Score   int
	Indices []int // rune indices into the haystack, strictly increasing
}

// Fold lowercases s rune by rune. unicode.ToLower maps every rune to exactly
// one rune, so indices into the folded slice are indices into s's runes.
func Fold(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		out = append(out, unicode.ToLower(r))
	}
	return out
}

// isWordSeparator reports whether r starts a new word for scoring purposes.
func isWordSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-'
}

// MatchRunes reports whether every rune of query appears in haystack in order and
// scores the match. Both arguments must already be folded.
//
// An empty query matches anything with score 0 and no indices. A non-empty
// match always scores at least 1.
func MatchRunes(haystack, query []rune) (Match, bool) {
	if len(query) == 0 {
		return Match{}, true
	}
	if len(query) > len(haystack) {
		return Match{}, false
	}

	indices := make([]int, 0, len(query))
	score := 0
	qi := 0
	for i, r := range haystack {
		if r != query[qi] {
			continue
		}

		if i == 0 {
			score += BonusStart
		} else if isWordSeparator(haystack[i-1]) {
			score += BonusWordStart
		}
		if n := len(indices); n > 0 && indices[n-1] == i-1 {
			score += BonusConsecutive
		}

		indices = append(indices, i)
		qi++
		if qi == len(query) {
			score -= len(haystack) - len(query)
			if score < 1 {
				score = 1
			}
			return Match{Score: score, Indices: indices}, true
		}
	}

	return Match{}, false
}

// MatchString folds both strings and runs MatchRunes.
func MatchString(haystack, query string) (Match, bool) {
	return MatchRunes(Fold(haystack), Fold(query))
}
