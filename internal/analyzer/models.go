// Package analyzer performs retrospective gap analysis: given a past
// situation and what actually happened, it compares the actual decision
// against the recommended one and names the gaps and lessons. Reasoning
// providers run in a fallback chain; a local heuristic is the terminal
// fallback, so analysis always produces a report.
package analyzer

import (
	"math"

	"praxis/internal/domain"
	"praxis/internal/engine"
)

// Gap is one divergence between the actual decision and the guidance.
type Gap struct {
	Type        string `json:"gap_type"`
	Description string `json:"description"`
	Severity    int    `json:"severity"`
}

// Lesson is one actionable takeaway paired with a gap.
type Lesson struct {
	Insight     string `json:"insight"`
	Actionable  string `json:"actionable"`
	PrincipleID *int   `json:"principle_id,omitempty"`
}

// AnalysisReport is the immutable outcome of one historical analysis.
type AnalysisReport struct {
	Situation      *domain.HistoricalSituation `json:"situation"`
	Recommended    *engine.DecisionResult      `json:"recommended"`
	Gaps           []Gap                       `json:"gaps"`
	Lessons        []Lesson                    `json:"lessons"`
	AdherenceScore float64                     `json:"adherence_score"`
	Source         string                      `json:"analysis_source"` // provider name or "heuristic"
}

// gap severity bounds
const (
	minSeverity = 1
	maxSeverity = 10
)

// adherenceScore is 1.0 with no gaps, else drops 0.05 per severity
// point, floored at zero.
func adherenceScore(gaps []Gap) float64 {
	if len(gaps) == 0 {
		return 1.0
	}
	total := 0
	for _, g := range gaps {
		total += g.Severity
	}
	score := 1.0 - 0.05*float64(total)
	if score < 0 {
		score = 0
	}
	return math.Round(score*100) / 100
}

func clampSeverity(s int) int {
	if s < minSeverity {
		return minSeverity
	}
	if s > maxSeverity {
		return maxSeverity
	}
	return s
}
