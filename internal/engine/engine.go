package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"praxis/internal/domain"
	"praxis/internal/knowledge"
)

// DecisionEngine orchestrates the full evaluation: both matchers,
// aggregation, SOP triggering, the derived scores, and the synthesized
// reasoning and recommendation text.
type DecisionEngine struct {
	log        *zap.Logger
	kb         *knowledge.Base
	semantic   *SemanticMatcher
	lexical    *LexicalMatcher
	aggregator *MatchAggregator
	alignment  *AlignmentScorer
	confidence *ConfidenceScorer
}

// NewDecisionEngine wires the pipeline. semantic may be nil, in which
// case evaluation runs lexical-only.
func NewDecisionEngine(log *zap.Logger, kb *knowledge.Base, semantic *SemanticMatcher, opts ...EngineOption) *DecisionEngine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &DecisionEngine{
		log:        log,
		kb:         kb,
		semantic:   semantic,
		lexical:    NewLexicalMatcher(),
		aggregator: NewMatchAggregator(0),
		alignment:  NewAlignmentScorer(0),
		confidence: NewConfidenceScorer(0, 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EngineOption overrides one pipeline component.
type EngineOption func(*DecisionEngine)

// WithAggregator replaces the default match aggregator.
func WithAggregator(a *MatchAggregator) EngineOption {
	return func(e *DecisionEngine) { e.aggregator = a }
}

// WithAlignmentScorer replaces the default alignment scorer.
func WithAlignmentScorer(s *AlignmentScorer) EngineOption {
	return func(e *DecisionEngine) { e.alignment = s }
}

// WithConfidenceScorer replaces the default confidence scorer.
func WithConfidenceScorer(s *ConfidenceScorer) EngineOption {
	return func(e *DecisionEngine) { e.confidence = s }
}

// Evaluate runs the pipeline for one situation. The only error it
// returns is input validation; every provider failure degrades the
// result silently.
func (e *DecisionEngine) Evaluate(ctx context.Context, situation *domain.Situation) (*DecisionResult, error) {
	situation.Normalize()
	if err := situation.Validate(); err != nil {
		return nil, err
	}

	principles := e.kb.Principles

	meta := MatchingMetadata{}
	var semanticMatches []PrincipleMatch
	if e.semantic != nil {
		meta.StrategiesAttempted = append(meta.StrategiesAttempted, e.semantic.Name())
		semanticMatches = e.semantic.Match(ctx, situation, principles)
		if len(semanticMatches) > 0 {
			meta.StrategiesSucceeded = append(meta.StrategiesSucceeded, e.semantic.Name())
		}
		meta.SemanticProvider, meta.FallbackTriggered = e.semantic.LastOutcome()
	}

	meta.StrategiesAttempted = append(meta.StrategiesAttempted, e.lexical.Name())
	lexicalMatches := e.lexical.Match(ctx, situation, principles)
	if len(lexicalMatches) > 0 {
		meta.StrategiesSucceeded = append(meta.StrategiesSucceeded, e.lexical.Name())
	}

	matches := e.aggregator.Aggregate(semanticMatches, lexicalMatches)
	triggered := e.kb.SOPsTriggeredBy(situation.FullDescription())
	alignment := e.alignment.Score(matches)
	confidence := e.confidence.Score(matches, triggered)

	e.log.Debug("evaluation complete",
		zap.String("situation", situation.ID),
		zap.Int("matches", len(matches)),
		zap.Int("triggered_sops", len(triggered)),
		zap.Float64("confidence", confidence))

	return &DecisionResult{
		Situation:      situation,
		Matches:        matches,
		TriggeredSOPs:  triggered,
		Recommendation: buildRecommendation(matches, triggered),
		Alignment:      alignment,
		Confidence:     confidence,
		Reasoning:      buildReasoning(matches, triggered, alignment),
		Metadata:       meta,
	}, nil
}

// buildReasoning names the strongest match, any triggered SOPs, and the
// two values that accumulated the most alignment weight.
func buildReasoning(matches []PrincipleMatch, triggered []domain.SOP, alignment AlignmentScore) string {
	var parts []string

	if len(matches) > 0 {
		top := matches[0]
		parts = append(parts, fmt.Sprintf("Strongest signal: principle %d (%s) with relevance %.2f.",
			top.Principle.ID, top.Principle.Title, top.Score))
	} else {
		parts = append(parts, "No principle matched this situation with meaningful relevance.")
	}

	if len(triggered) > 0 {
		names := make([]string, 0, len(triggered))
		for _, s := range triggered {
			names = append(names, s.Name)
		}
		parts = append(parts, "Triggered procedures: "+strings.Join(names, ", ")+".")
	}

	if ids := topValueIDs(alignment.ValueScores, 2); len(ids) > 0 {
		parts = append(parts, "Most engaged values: "+strings.Join(ids, ", ")+".")
	}

	return strings.Join(parts, " ")
}

// topValueIDs returns the n value ids with the highest accumulated
// weight, ties broken by id ascending so the output is deterministic.
func topValueIDs(scores map[string]float64, n int) []string {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// buildRecommendation enumerates the ranked matches with their first
// sub-guidance item. A triggered SOP turns into an immediate-action
// directive ahead of the principle guidance.
func buildRecommendation(matches []PrincipleMatch, triggered []domain.SOP) string {
	var b strings.Builder

	if len(triggered) > 0 {
		names := make([]string, 0, len(triggered))
		for _, s := range triggered {
			names = append(names, s.Name)
		}
		fmt.Fprintf(&b, "IMMEDIATE ACTION: follow %s.\n\n", strings.Join(names, ", "))
	}

	if len(matches) == 0 {
		b.WriteString("No specific principle applies strongly. Proceed with general judgment and revisit after the outcome is known.")
		return b.String()
	}

	b.WriteString("Apply these principles:\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. Principle %d: %s", i+1, m.Principle.ID, m.Principle.Title)
		if len(m.Principle.SubPrinciples) > 0 {
			fmt.Fprintf(&b, " (%s)", m.Principle.SubPrinciples[0].Text)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
