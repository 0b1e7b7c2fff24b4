package palette

// Recency boost constants: the most recent entry gets recencyMax, each
// further position costs recencyStep, and no listed entry gets less than
// recencyFloor.
const (
	recencyMax   = 50
	recencyStep  = 5
	recencyFloor = 10
)

// RecencyBoost returns the boost for a candidate at position pos (0 = most
// recent) of the recency list.
func RecencyBoost(pos int) int {
	return max(recencyMax-recencyStep*pos, recencyFloor)
}

// recencyIndex maps candidate IDs to their first position in recent.
type recencyIndex map[string]int

func newRecencyIndex(recent []string) recencyIndex {
	if len(recent) == 0 {
		return nil
	}
	idx := make(recencyIndex, len(recent))
	for i, id := range recent {
		if _, seen := idx[id]; !seen {
			idx[id] = i
		}
	}
	return idx
}

// boost returns the recency boost for id, or 0 if id is not listed.
func (r recencyIndex) boost(id string) int {
	pos, ok := r[id]
	if !ok {
		return 0
	}
	return RecencyBoost(pos)
}
