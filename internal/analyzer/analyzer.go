package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"praxis/internal/domain"
	"praxis/internal/engine"
	"praxis/internal/reasoning"
)

// GapAnalyzer compares historical decisions against recommendations.
type GapAnalyzer struct {
	log    *zap.Logger
	engine *engine.DecisionEngine
	chain  *reasoning.Chain
}

// NewGapAnalyzer creates an analyzer. chain may be nil, forcing the
// heuristic path.
func NewGapAnalyzer(log *zap.Logger, eng *engine.DecisionEngine, chain *reasoning.Chain) *GapAnalyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &GapAnalyzer{log: log, engine: eng, chain: chain}
}

// Analyze evaluates what should have been recommended, then extracts
// gaps and lessons through the reasoning chain, falling back to the
// local heuristic. The only error is input validation.
func (a *GapAnalyzer) Analyze(ctx context.Context, hist *domain.HistoricalSituation) (*AnalysisReport, error) {
	hist.Normalize()
	if err := hist.Validate(); err != nil {
		return nil, err
	}

	recommended, err := a.engine.Evaluate(ctx, &hist.Situation)
	if err != nil {
		return nil, err
	}

	gaps, lessons, source := a.extract(ctx, hist, recommended)
	for i := range gaps {
		gaps[i].Severity = clampSeverity(gaps[i].Severity)
	}

	return &AnalysisReport{
		Situation:      hist,
		Recommended:    recommended,
		Gaps:           gaps,
		Lessons:        lessons,
		AdherenceScore: adherenceScore(gaps),
		Source:         source,
	}, nil
}

func (a *GapAnalyzer) extract(ctx context.Context, hist *domain.HistoricalSituation, rec *engine.DecisionResult) ([]Gap, []Lesson, string) {
	if a.chain != nil {
		res := a.chain.Complete(ctx, buildPrompt(hist, rec))
		if res.OK() {
			if gaps, lessons, err := parseAnalysis(res.Text); err == nil {
				return gaps, lessons, res.Provider
			} else {
				a.log.Warn("reasoning output rejected, using heuristic",
					zap.String("provider", res.Provider),
					zap.Error(err))
			}
		} else {
			a.log.Warn("reasoning chain exhausted, using heuristic", zap.Error(res.Err))
		}
	}
	gaps, lessons := heuristicAnalysis(hist, rec)
	return gaps, lessons, "heuristic"
}

func buildPrompt(hist *domain.HistoricalSituation, rec *engine.DecisionResult) string {
	var b strings.Builder
	b.WriteString("You are reviewing a past decision against principle-based guidance.\n\n")
	b.WriteString(hist.AnalysisSummary())
	b.WriteString("\n\nRecommended approach:\n")
	b.WriteString(rec.Recommendation)
	b.WriteString("\n\nReasoning behind the recommendation:\n")
	b.WriteString(rec.Reasoning)
	b.WriteString("\n\nIdentify gaps between the actual decision and the recommendation, ")
	b.WriteString("and lessons to carry forward. Respond with ONLY a JSON object:\n")
	b.WriteString(`{"gaps": [{"gap_type": "...", "description": "...", "severity": 1}],` +
		` "lessons": [{"insight": "...", "actionable": "..."}]}`)
	b.WriteString("\nSeverity is an integer from 1 (minor) to 10 (critical).")
	return b.String()
}

type analysisPayload struct {
	Gaps    []Gap    `json:"gaps"`
	Lessons []Lesson `json:"lessons"`
}

// parseAnalysis strips markdown fences, locates the JSON object, and
// validates the schema strictly. Any defect fails the whole response so
// the caller falls back; partial output is never trusted.
func parseAnalysis(text string) ([]Gap, []Lesson, error) {
	raw := extractJSONBlock(text)
	if raw == "" {
		raw = extractJSONObject(text)
	}
	if raw == "" {
		return nil, nil, fmt.Errorf("no JSON object in response")
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, nil, fmt.Errorf("parse analysis: %w", err)
	}
	for i, g := range payload.Gaps {
		if g.Type == "" || g.Description == "" {
			return nil, nil, fmt.Errorf("gap %d: missing gap_type or description", i)
		}
	}
	for i, l := range payload.Lessons {
		if l.Insight == "" {
			return nil, nil, fmt.Errorf("lesson %d: missing insight", i)
		}
	}
	return payload.Gaps, payload.Lessons, nil
}

// extractJSONBlock pulls the contents of the first fenced code block.
func extractJSONBlock(s string) string {
	start := strings.Index(s, "```")
	if start == -1 {
		return ""
	}
	rest := s[start+3:]
	nl := strings.Index(rest, "\n")
	if nl == -1 {
		return ""
	}
	rest = rest[nl+1:]
	end := strings.Index(rest, "```")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// extractJSONObject returns the first brace-balanced object in s.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
