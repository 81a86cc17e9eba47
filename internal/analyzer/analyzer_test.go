package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"praxis/internal/domain"
	"praxis/internal/engine"
	"praxis/internal/knowledge"
	"praxis/internal/reasoning"
)

type cannedClient struct {
	name string
	text string
	err  error
}

func (c *cannedClient) Complete(context.Context, string) (string, error) {
	return c.text, c.err
}
func (c *cannedClient) Name() string { return c.name }

func testEngine() *engine.DecisionEngine {
	kb := &knowledge.Base{
		Principles: []domain.Principle{
			{
				ID:    1,
				Title: "Sleep on irreversible decisions",
				Tags:  []string{"irreversible", "sleep", "patience"},
			},
		},
	}
	return engine.NewDecisionEngine(zap.NewNop(), kb, nil)
}

func historical() *domain.HistoricalSituation {
	return &domain.HistoricalSituation{
		Situation: domain.Situation{
			ID:          "h1",
			Description: "an irreversible contract decision under time pressure",
		},
		ActualDecision: "signed immediately without consulting anyone",
		ActualOutcome:  "deep regret within a week",
	}
}

func TestAnalyzeUsesProviderJSON(t *testing.T) {
	response := "Here is the analysis:\n```json\n" +
		`{"gaps": [{"gap_type": "rushed_decision", "description": "No cooling-off period", "severity": 6}],` +
		` "lessons": [{"insight": "Pressure shortcuts reflection", "actionable": "Impose a 24h delay"}]}` +
		"\n```\n"
	chain := reasoning.NewChain(zap.NewNop(), []reasoning.CompletionClient{
		&cannedClient{name: "primary", text: response},
	}, 0)

	a := NewGapAnalyzer(zap.NewNop(), testEngine(), chain)
	report, err := a.Analyze(context.Background(), historical())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Source != "primary" {
		t.Errorf("source = %q, want primary", report.Source)
	}
	if len(report.Gaps) != 1 || report.Gaps[0].Type != "rushed_decision" {
		t.Fatalf("gaps = %+v", report.Gaps)
	}
	if report.AdherenceScore != 0.70 {
		t.Errorf("adherence = %v, want 0.70", report.AdherenceScore)
	}
}

func TestAnalyzeFallsBackToHeuristic(t *testing.T) {
	chain := reasoning.NewChain(zap.NewNop(), []reasoning.CompletionClient{
		&cannedClient{name: "primary", err: errors.New("boom")},
		&cannedClient{name: "secondary", text: "not json at all"},
	}, 0)

	a := NewGapAnalyzer(zap.NewNop(), testEngine(), chain)
	report, err := a.Analyze(context.Background(), historical())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Source != "heuristic" {
		t.Errorf("source = %q, want heuristic", report.Source)
	}
	if len(report.Gaps) != 1 || report.Gaps[0].Type != "missed_principle" {
		t.Fatalf("gaps = %+v", report.Gaps)
	}
	if report.Gaps[0].Severity != 7 {
		t.Errorf("severity = %d, want 7", report.Gaps[0].Severity)
	}
	if len(report.Lessons) != 1 {
		t.Fatalf("lessons = %d, want 1", len(report.Lessons))
	}
	if report.Lessons[0].PrincipleID == nil || *report.Lessons[0].PrincipleID != 1 {
		t.Errorf("lesson principle id = %v, want 1", report.Lessons[0].PrincipleID)
	}
}

func TestAnalyzeClampsSeverity(t *testing.T) {
	response := `{"gaps": [{"gap_type": "a", "description": "b", "severity": 15},` +
		`{"gap_type": "c", "description": "d", "severity": 0}], "lessons": []}`
	chain := reasoning.NewChain(zap.NewNop(), []reasoning.CompletionClient{
		&cannedClient{name: "primary", text: response},
	}, 0)

	a := NewGapAnalyzer(zap.NewNop(), testEngine(), chain)
	report, err := a.Analyze(context.Background(), historical())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Gaps[0].Severity != 10 || report.Gaps[1].Severity != 1 {
		t.Errorf("severities = %d, %d, want 10, 1", report.Gaps[0].Severity, report.Gaps[1].Severity)
	}
}

func TestAnalyzeRejectsInvalidInput(t *testing.T) {
	a := NewGapAnalyzer(zap.NewNop(), testEngine(), nil)
	hist := historical()
	hist.ActualDecision = ""
	_, err := a.Analyze(context.Background(), hist)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "actual_decision" {
		t.Fatalf("err = %v, want validation error on actual_decision", err)
	}
}

func TestHeuristicBadOutcomeBlindspot(t *testing.T) {
	hist := historical()
	// Decision text names the principle, so no missed_principle gap.
	hist.ActualDecision = "I chose to sleep on irreversible decisions and waited with patience before the irreversible step"

	a := NewGapAnalyzer(zap.NewNop(), testEngine(), nil)
	report, err := a.Analyze(context.Background(), hist)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.Gaps) != 1 || report.Gaps[0].Type != "bad_outcome_blindspot" {
		t.Fatalf("gaps = %+v, want one bad_outcome_blindspot", report.Gaps)
	}
	if report.Gaps[0].Severity != 5 {
		t.Errorf("severity = %d, want 5", report.Gaps[0].Severity)
	}
}

func TestAdherenceScore(t *testing.T) {
	if got := adherenceScore(nil); got != 1.0 {
		t.Errorf("no gaps = %v, want 1.0", got)
	}
	if got := adherenceScore([]Gap{{Severity: 10}}); got != 0.50 {
		t.Errorf("single sev 10 = %v, want 0.50", got)
	}
	if got := adherenceScore([]Gap{{Severity: 10}, {Severity: 10}, {Severity: 10}}); got != 0.0 {
		t.Errorf("sev sum 30 = %v, want floored 0.0", got)
	}
}

func TestParseAnalysisBareObject(t *testing.T) {
	gaps, lessons, err := parseAnalysis(
		`preamble {"gaps": [{"gap_type": "x", "description": "y", "severity": 3}], "lessons": []} postamble`)
	if err != nil {
		t.Fatalf("parseAnalysis: %v", err)
	}
	if len(gaps) != 1 || len(lessons) != 0 {
		t.Fatalf("gaps=%d lessons=%d", len(gaps), len(lessons))
	}
}

func TestParseAnalysisRejectsSchemaViolations(t *testing.T) {
	cases := []string{
		`{"gaps": [{"description": "missing type", "severity": 3}], "lessons": []}`,
		`{"gaps": [], "lessons": [{"actionable": "no insight"}]}`,
		"no json here",
	}
	for _, text := range cases {
		if _, _, err := parseAnalysis(text); err == nil {
			t.Errorf("parseAnalysis(%q) accepted invalid payload", text)
		}
	}
}

func TestAnalyzeReportCarriesRecommendation(t *testing.T) {
	a := NewGapAnalyzer(zap.NewNop(), testEngine(), nil)
	report, err := a.Analyze(context.Background(), historical())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Recommended == nil {
		t.Fatal("recommended result missing")
	}
	if !strings.Contains(report.Recommended.Recommendation, "Sleep on irreversible decisions") {
		t.Errorf("recommendation = %q", report.Recommended.Recommendation)
	}
	if report.AdherenceScore < 0 || report.AdherenceScore > 1 {
		t.Errorf("adherence = %v out of [0,1]", report.AdherenceScore)
	}
}
