package palette

import (
	"strings"

	"github.com/runger/cmdpal/internal/fuzzy"
)

// Tier identifies which field produced a match.
type Tier int

const (
	TierNone     Tier = iota // No field matched; candidate excluded
	TierAny                  // Empty query; everything matches with score 0
	TierLabel                // Subsequence match on the label
	TierCategory             // Substring match on the category
	TierID                   // Substring match on the identifier
)

// Tier scores.
const (
	labelBonus    = 100
	categoryScore = 50
	idScore       = 25
)

// String returns the tier name used in explain output.
func (t Tier) String() string {
	switch t {
	case TierAny:
		return "any"
	case TierLabel:
		return "label"
	case TierCategory:
		return "category"
	case TierID:
		return "id"
	default:
		return "none"
	}
}

// query is a palette query folded once per search.
type query struct {
	raw   string
	runes []rune // folded, for the label matcher
	lower string // folded, for substring tiers
}

func newQuery(s string) query {
	runes := fuzzy.Fold(s)
	return query{raw: s, runes: runes, lower: string(runes)}
}

func (q query) empty() bool {
	return len(q.runes) == 0
}

// tierMatch is the outcome of one tier.
type tierMatch struct {
	tier    Tier
	score   int
	indices []int
}

// tierFunc attempts one tier. ok is false when the tier does not match.
type tierFunc func(c *Candidate, q query) (tierMatch, bool)

// tiers is walked in order; the first tier that matches wins and scores are
// never accumulated across tiers.
var tiers = []tierFunc{
	matchLabel,
	matchCategory,
	matchID,
}

func matchLabel(c *Candidate, q query) (tierMatch, bool) {
	m, ok := fuzzy.MatchRunes(fuzzy.Fold(c.Label), q.runes)
	if !ok {
		return tierMatch{}, false
	}
	return tierMatch{tier: TierLabel, score: m.Score + labelBonus, indices: m.Indices}, true
}

func matchCategory(c *Candidate, q query) (tierMatch, bool) {
	if !containsFold(c.Category, q) {
		return tierMatch{}, false
	}
	return tierMatch{tier: TierCategory, score: categoryScore}, true
}

func matchID(c *Candidate, q query) (tierMatch, bool) {
	if !containsFold(c.ID, q) {
		return tierMatch{}, false
	}
	return tierMatch{tier: TierID, score: idScore}, true
}

// resolve runs the tier pipeline for one candidate.
func resolve(c *Candidate, q query) tierMatch {
	if q.empty() {
		return tierMatch{tier: TierAny}
	}
	for _, try := range tiers {
		if m, ok := try(c, q); ok {
			return m
		}
	}
	return tierMatch{tier: TierNone}
}

func containsFold(field string, q query) bool {
	return strings.Contains(string(fuzzy.Fold(field)), q.lower)
}

func equalFold(a, b string) bool {
	return string(fuzzy.Fold(a)) == string(fuzzy.Fold(b))
}
