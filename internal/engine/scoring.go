package engine

import (
	"math"

	"praxis/internal/domain"
)

// DefaultAlignmentDivisor normalizes accumulated value contributions
// into the overall alignment scalar. Calibration constant, tunable via
// config.
const DefaultAlignmentDivisor = 3.0

// AlignmentScorer accumulates match relevance into per-value weights.
type AlignmentScorer struct {
	divisor float64
}

// NewAlignmentScorer creates a scorer. divisor <= 0 uses
// DefaultAlignmentDivisor.
func NewAlignmentScorer(divisor float64) *AlignmentScorer {
	if divisor <= 0 {
		divisor = DefaultAlignmentDivisor
	}
	return &AlignmentScorer{divisor: divisor}
}

// Score adds each match's relevance to every value its principle lists
// as related. Overall is the normalized running total, capped at 1.
func (s *AlignmentScorer) Score(matches []PrincipleMatch) AlignmentScore {
	out := AlignmentScore{ValueScores: make(map[string]float64)}

	var total float64
	for _, m := range matches {
		if m.Principle == nil {
			continue
		}
		for _, valueID := range m.Principle.RelatedValueIDs {
			out.ValueScores[valueID] += m.Score
			total += m.Score
		}
	}
	if total > 0 {
		out.Overall = math.Min(total/s.divisor, 1.0)
	}
	return out
}

const (
	// DefaultSOPConfidenceFloor is the minimum confidence when a
	// procedure is triggered.
	DefaultSOPConfidenceFloor = 0.8
	// DefaultMultiMatchBonus rewards corroboration by multiple matches.
	DefaultMultiMatchBonus = 0.1

	noSignalConfidence = 0.1
)

// ConfidenceScorer derives the confidence scalar from the aggregated
// matches and any triggered SOPs.
type ConfidenceScorer struct {
	sopFloor   float64
	multiBonus float64
}

// NewConfidenceScorer creates a scorer. Non-positive parameters fall
// back to the defaults.
func NewConfidenceScorer(sopFloor, multiBonus float64) *ConfidenceScorer {
	if sopFloor <= 0 {
		sopFloor = DefaultSOPConfidenceFloor
	}
	if multiBonus <= 0 {
		multiBonus = DefaultMultiMatchBonus
	}
	return &ConfidenceScorer{sopFloor: sopFloor, multiBonus: multiBonus}
}

// Score returns a confidence in [0,1] rounded to two decimals. No
// matches and no SOPs yields the 0.1 floor.
func (s *ConfidenceScorer) Score(matches []PrincipleMatch, triggered []domain.SOP) float64 {
	if len(matches) == 0 && len(triggered) == 0 {
		return noSignalConfidence
	}

	var base float64
	if len(matches) > 0 {
		base = matches[0].Score
	}

	switch {
	case len(triggered) > 0:
		base = math.Max(base, s.sopFloor)
	case len(matches) > 1:
		base = math.Min(base+s.multiBonus, 1.0)
	}
	return round2(clamp01(base))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
