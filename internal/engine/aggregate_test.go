package engine

import (
	"testing"

	"praxis/internal/domain"
)

func pm(id int, score float64) PrincipleMatch {
	return PrincipleMatch{Principle: &domain.Principle{ID: id}, Score: score}
}

func TestAggregateMaxMerge(t *testing.T) {
	a := NewMatchAggregator(0)
	merged := a.Aggregate(
		[]PrincipleMatch{pm(1, 0.72), pm(2, 0.90)},
		[]PrincipleMatch{pm(1, 0.85)},
	)
	if len(merged) != 2 {
		t.Fatalf("merged = %d, want 2", len(merged))
	}
	for _, m := range merged {
		if m.Principle.ID == 1 && m.Score != 0.85 {
			t.Errorf("principle 1 score = %v, want max 0.85", m.Score)
		}
	}
}

func TestAggregateTruncatesToThree(t *testing.T) {
	a := NewMatchAggregator(0)
	merged := a.Aggregate([]PrincipleMatch{
		pm(1, 0.9), pm(2, 0.8), pm(3, 0.7), pm(4, 0.6), pm(5, 0.5),
	})
	if len(merged) != 3 {
		t.Fatalf("merged = %d, want 3", len(merged))
	}
	if merged[0].Principle.ID != 1 || merged[2].Principle.ID != 3 {
		t.Errorf("truncation kept wrong matches: %v, %v", merged[0].Principle.ID, merged[2].Principle.ID)
	}
}

func TestAggregateSortsDescending(t *testing.T) {
	a := NewMatchAggregator(0)
	merged := a.Aggregate(
		[]PrincipleMatch{pm(1, 0.3)},
		[]PrincipleMatch{pm(2, 0.95), pm(3, 0.6)},
	)
	for i := 1; i < len(merged); i++ {
		if merged[i].Score > merged[i-1].Score {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
}

func TestAggregateEmptyInputs(t *testing.T) {
	a := NewMatchAggregator(0)
	if merged := a.Aggregate(nil, nil); len(merged) != 0 {
		t.Fatalf("merged = %d, want 0", len(merged))
	}
}
