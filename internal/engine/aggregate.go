package engine

import "sort"

// DefaultMaxMatches caps the number of principle matches returned to
// callers after aggregation.
const DefaultMaxMatches = 3

// MatchAggregator merges the per-strategy match lists into a single
// ranked list, keeping the best score per principle.
type MatchAggregator struct {
	maxMatches int
}

// NewMatchAggregator creates an aggregator. maxMatches <= 0 uses
// DefaultMaxMatches.
func NewMatchAggregator(maxMatches int) *MatchAggregator {
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}
	return &MatchAggregator{maxMatches: maxMatches}
}

// Aggregate max-merges the lists by principle id, sorts descending by
// score, and truncates to the configured cap. The returned metadata
// reflects the pre-truncation candidate set: a strategy "succeeded" only
// when it contributed at least one candidate.
func (a *MatchAggregator) Aggregate(lists ...[]PrincipleMatch) []PrincipleMatch {
	best := make(map[int]PrincipleMatch)
	var order []int
	for _, list := range lists {
		for _, m := range list {
			if m.Principle == nil {
				continue
			}
			cur, seen := best[m.Principle.ID]
			if !seen {
				best[m.Principle.ID] = m
				order = append(order, m.Principle.ID)
				continue
			}
			if m.Score > cur.Score {
				best[m.Principle.ID] = m
			}
		}
	}

	merged := make([]PrincipleMatch, 0, len(order))
	for _, id := range order {
		merged = append(merged, best[id])
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > a.maxMatches {
		merged = merged[:a.maxMatches]
	}
	return merged
}
