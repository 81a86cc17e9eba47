package engine

import (
	"math"
	"testing"

	"praxis/internal/domain"
)

func TestAlignmentAccumulatesPerValue(t *testing.T) {
	s := NewAlignmentScorer(0)
	matches := []PrincipleMatch{
		{Principle: &domain.Principle{ID: 1, RelatedValueIDs: []string{"integrity", "courage"}}, Score: 0.8},
		{Principle: &domain.Principle{ID: 2, RelatedValueIDs: []string{"integrity"}}, Score: 0.5},
	}
	got := s.Score(matches)
	if math.Abs(got.ValueScores["integrity"]-1.3) > 1e-9 {
		t.Errorf("integrity = %v, want 1.3", got.ValueScores["integrity"])
	}
	if math.Abs(got.ValueScores["courage"]-0.8) > 1e-9 {
		t.Errorf("courage = %v, want 0.8", got.ValueScores["courage"])
	}
	// total 2.1 over divisor 3.0
	if math.Abs(got.Overall-0.7) > 1e-9 {
		t.Errorf("overall = %v, want 0.7", got.Overall)
	}
}

func TestAlignmentCapsAtOne(t *testing.T) {
	s := NewAlignmentScorer(0)
	matches := []PrincipleMatch{
		{Principle: &domain.Principle{ID: 1, RelatedValueIDs: []string{"a", "b", "c", "d"}}, Score: 1.0},
	}
	if got := s.Score(matches).Overall; got != 1.0 {
		t.Errorf("overall = %v, want 1.0", got)
	}
}

func TestAlignmentEmptyIsZero(t *testing.T) {
	s := NewAlignmentScorer(0)
	got := s.Score(nil)
	if got.Overall != 0 {
		t.Errorf("overall = %v, want 0", got.Overall)
	}
}

func TestConfidenceNoSignal(t *testing.T) {
	s := NewConfidenceScorer(0, 0)
	if got := s.Score(nil, nil); got != 0.10 {
		t.Errorf("confidence = %v, want exactly 0.10", got)
	}
}

func TestConfidenceSOPFloor(t *testing.T) {
	s := NewConfidenceScorer(0, 0)
	sops := []domain.SOP{{ID: 1, Name: "Conflict De-escalation"}}

	if got := s.Score(nil, sops); got != 0.80 {
		t.Errorf("confidence with SOP, no matches = %v, want 0.80", got)
	}
	if got := s.Score([]PrincipleMatch{pm(1, 0.5)}, sops); got != 0.80 {
		t.Errorf("confidence raised to floor = %v, want 0.80", got)
	}
	if got := s.Score([]PrincipleMatch{pm(1, 0.95)}, sops); got != 0.95 {
		t.Errorf("confidence above floor = %v, want 0.95", got)
	}
}

func TestConfidenceMultiMatchBonus(t *testing.T) {
	s := NewConfidenceScorer(0, 0)
	if got := s.Score([]PrincipleMatch{pm(1, 0.7), pm(2, 0.6)}, nil); got != 0.80 {
		t.Errorf("confidence with bonus = %v, want 0.80", got)
	}
	if got := s.Score([]PrincipleMatch{pm(1, 0.95), pm(2, 0.9)}, nil); got != 1.00 {
		t.Errorf("bonus capped = %v, want 1.00", got)
	}
	if got := s.Score([]PrincipleMatch{pm(1, 0.7)}, nil); got != 0.70 {
		t.Errorf("single match gets no bonus = %v, want 0.70", got)
	}
}

func TestConfidenceRounded(t *testing.T) {
	s := NewConfidenceScorer(0, 0)
	got := s.Score([]PrincipleMatch{pm(1, 0.678)}, nil)
	if got != 0.68 {
		t.Errorf("confidence = %v, want 0.68", got)
	}
}
