// Package palette ranks command candidates against a palette query.
//
// Ranking is a pure function of (candidates, query, recent IDs): each
// candidate is resolved through a fixed tier pipeline (label, category, id),
// matched candidates get a recency boost, and the survivors are stably sorted
// by descending score.
package palette

// Candidate is a searchable palette entry. The engine only borrows it.
type Candidate struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Category string `json:"category,omitempty" yaml:"category"`
}

// MatchResult is a ranked candidate.
type MatchResult struct {
	Candidate *Candidate // Points into the slice passed to Search
	Score     int        // Tier score plus recency boost
	Indices   []int      // Rune indices into Candidate.Label; empty unless Tier == TierLabel

	// Explain fields.
	Tier  Tier // Which tier produced the match
	Boost int  // Recency contribution included in Score
}

// DefaultMaxResults is used by Limit when no positive limit is given.
const DefaultMaxResults = 10

// Limit truncates results to maxResults, defaulting to DefaultMaxResults.
func Limit(results []MatchResult, maxResults int) []MatchResult {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if len(results) > maxResults {
		return results[:maxResults]
	}
	return results
}

// FilterCategory returns the candidates whose category equals category,
// ignoring case. An empty category returns candidates unchanged.
func FilterCategory(candidates []Candidate, category string) []Candidate {
	if category == "" {
		return candidates
	}
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if equalFold(c.Category, category) {
			out = append(out, c)
		}
	}
	return out
}
