// Package engine implements the matching-and-scoring pipeline: lexical
// and semantic principle matchers, their aggregation into one ranked
// result, the derived alignment/confidence metrics, and the decision
// engine that orchestrates them. Provider failures degrade the result;
// they never surface to the caller.
package engine

import (
	"context"

	"praxis/internal/domain"
)

// PrincipleMatch is a matched principle with a relevance score in [0,1]
// and a human-readable reason. Immutable once built; the principle is
// shared corpus data, not owned.
type PrincipleMatch struct {
	Principle *domain.Principle `json:"principle"`
	Score     float64           `json:"relevance_score"`
	Reason    string            `json:"match_reason"`
}

// AlignmentScore is the overall value-alignment scalar plus the
// unnormalized accumulated weight per value id.
type AlignmentScore struct {
	Overall     float64            `json:"overall_score"`
	ValueScores map[string]float64 `json:"value_scores,omitempty"`
}

// MatchingMetadata records which matching strategies ran and how the
// semantic signal was served. A strategy counts as succeeded only if it
// produced at least one candidate before truncation; per-match
// attribution of the winning strategy is not tracked.
type MatchingMetadata struct {
	StrategiesAttempted []string `json:"strategies_attempted"`
	StrategiesSucceeded []string `json:"strategies_succeeded"`
	SemanticProvider    string   `json:"semantic_provider,omitempty"`
	FallbackTriggered   bool     `json:"fallback_triggered"`
}

// DecisionResult is the immutable outcome of one evaluation.
type DecisionResult struct {
	Situation          *domain.Situation `json:"situation"`
	Matches            []PrincipleMatch  `json:"applicable_principles"`
	TriggeredSOPs      []domain.SOP      `json:"triggered_sops"`
	Recommendation     string            `json:"recommendation"`
	Alignment          AlignmentScore    `json:"value_alignment"`
	Confidence         float64           `json:"confidence"`
	Reasoning          string            `json:"reasoning"`
	Metadata           MatchingMetadata  `json:"matching_metadata"`
}

// Matcher is the closed set of principle-matching strategies.
type Matcher interface {
	Match(ctx context.Context, situation *domain.Situation, principles []domain.Principle) []PrincipleMatch
	Name() string
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
