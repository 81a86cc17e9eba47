// Package report renders decision results and historical analyses as
// Markdown for terminal display and file output.
package report

import (
	"fmt"
	"strings"
	"time"

	"praxis/internal/analyzer"
	"praxis/internal/engine"
)

// Generator formats pipeline outputs as Markdown. The zero value is
// usable; now is overridable for deterministic tests.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a generator using the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Decision renders a decision result.
func (g *Generator) Decision(result *engine.DecisionResult) string {
	situation := result.Situation

	var b strings.Builder
	b.WriteString("# Decision Analysis Report\n")
	fmt.Fprintf(&b, "**Date:** %s\n\n", g.timestamp())

	b.WriteString("## 1. Situation\n")
	fmt.Fprintf(&b, "- **Description:** %s\n", situation.Description)
	fmt.Fprintf(&b, "- **Domain:** %s\n", situation.Domain)
	fmt.Fprintf(&b, "- **Stakes:** %s\n", situation.Stakes)
	if len(situation.Context.Emotions) > 0 {
		fmt.Fprintf(&b, "- **Emotions:** %s\n", strings.Join(situation.Context.Emotions, ", "))
	}
	b.WriteString("\n## 2. Applicable Principles\n")

	if len(result.Matches) == 0 {
		b.WriteString("_No specific principles matched this situation._\n")
	}
	for _, m := range result.Matches {
		p := m.Principle
		fmt.Fprintf(&b, "### %d. %s\n", p.ID, p.Title)
		fmt.Fprintf(&b, "**Relevance:** %.2f | **Reason:** %s\n", m.Score, m.Reason)
		if len(p.SubPrinciples) > 0 {
			fmt.Fprintf(&b, "_%s_\n", p.SubPrinciples[0].Text)
		}
		b.WriteString("\n")
	}

	b.WriteString("## 3. Triggered Procedures\n")
	if len(result.TriggeredSOPs) == 0 {
		b.WriteString("_No procedures triggered._\n")
	}
	for _, s := range result.TriggeredSOPs {
		fmt.Fprintf(&b, "- **%s**: %s\n", s.Name, s.Purpose)
	}

	b.WriteString("\n## 4. Recommendation\n")
	b.WriteString(result.Recommendation)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**Reasoning:** %s\n", result.Reasoning)
	fmt.Fprintf(&b, "**Confidence:** %.2f | **Value Alignment:** %.2f\n",
		result.Confidence, result.Alignment.Overall)

	return b.String()
}

// Historical renders a gap-analysis report.
func (g *Generator) Historical(report *analyzer.AnalysisReport) string {
	hist := report.Situation

	var b strings.Builder
	fmt.Fprintf(&b, "# Historical Analysis: %s\n", truncate(hist.Description, 50))
	fmt.Fprintf(&b, "**Date:** %s\n\n", g.timestamp())

	b.WriteString("## 1. Record\n")
	fmt.Fprintf(&b, "**What Happened:** %s\n", hist.Description)
	fmt.Fprintf(&b, "**Actual Decision:** %s\n", hist.ActualDecision)
	fmt.Fprintf(&b, "**Outcome:** %s\n\n", hist.ActualOutcome)

	b.WriteString("## 2. Principle-Based Analysis\n")
	fmt.Fprintf(&b, "**Adherence Score:** %.2f/1.0\n", report.AdherenceScore)
	fmt.Fprintf(&b, "**Analysis Source:** %s\n\n", report.Source)

	b.WriteString("### Recommended Course\n")
	b.WriteString(report.Recommended.Recommendation)
	b.WriteString("\n\n### Gaps\n")

	if len(report.Gaps) == 0 {
		b.WriteString("_No significant gaps identified._\n")
	}
	for _, gap := range report.Gaps {
		fmt.Fprintf(&b, "- **[%s]** %s (Severity: %d)\n",
			strings.ToUpper(gap.Type), gap.Description, gap.Severity)
	}

	b.WriteString("\n## 3. Lessons Learned\n")
	if len(report.Lessons) == 0 {
		b.WriteString("_No specific lessons extracted._\n")
	}
	for _, lesson := range report.Lessons {
		fmt.Fprintf(&b, "- **Insight:** %s\n", lesson.Insight)
		fmt.Fprintf(&b, "  **Action:** %s\n", lesson.Actionable)
	}

	return b.String()
}

func (g *Generator) timestamp() string {
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	return now().Format("2006-01-02 15:04")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
