package palette

import "sort"

// MatchOne resolves a single candidate against query without any recency
// boost. ok is false when no tier matches.
func MatchOne(c *Candidate, q string) (MatchResult, bool) {
	if c == nil {
		return MatchResult{}, false
	}
	return matchOne(c, newQuery(q))
}

func matchOne(c *Candidate, q query) (MatchResult, bool) {
	m := resolve(c, q)
	if m.tier == TierNone {
		return MatchResult{}, false
	}
	return MatchResult{
		Candidate: c,
		Score:     m.score,
		Indices:   m.indices,
		Tier:      m.tier,
	}, true
}

// Search ranks candidates against query. Candidates listed in recent (most
// recent first) get a boost on top of their tier score. Results are sorted by
// descending score; equal scores keep the order of candidates.
//
// An empty query returns every candidate with score 0 in input order.
func Search(candidates []Candidate, q string, recent []string) []MatchResult {
	fq := newQuery(q)
	results := make([]MatchResult, 0, len(candidates))

	if fq.empty() {
		for i := range candidates {
			results = append(results, MatchResult{Candidate: &candidates[i], Tier: TierAny})
		}
		return results
	}

	rec := newRecencyIndex(recent)
	for i := range candidates {
		r, ok := matchOne(&candidates[i], fq)
		if !ok {
			continue
		}
		r.Boost = rec.boost(r.Candidate.ID)
		r.Score += r.Boost
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}
