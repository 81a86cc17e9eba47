package analyzer

import (
	"fmt"
	"strings"

	"praxis/internal/domain"
	"praxis/internal/engine"
)

const (
	missedPrincipleSeverity = 7
	badOutcomeSeverity      = 5
)

var negativeOutcomeWords = []string{
	"regret", "fail", "bad", "loss", "error", "poor", "worse",
}

// heuristicAnalysis is the terminal fallback when every reasoning
// provider is down. For each matched principle: if its title is absent
// from the actual-decision text and more than half its tags are too, the
// principle was likely missed. If that finds nothing and the outcome
// reads negative, flag a generic blindspot.
func heuristicAnalysis(hist *domain.HistoricalSituation, rec *engine.DecisionResult) ([]Gap, []Lesson) {
	decision := strings.ToLower(hist.ActualDecision)

	var gaps []Gap
	var lessons []Lesson

	for _, m := range rec.Matches {
		p := m.Principle
		if strings.Contains(decision, strings.ToLower(p.Title)) {
			continue
		}
		absent := 0
		for _, tag := range p.Tags {
			if !strings.Contains(decision, strings.ToLower(tag)) {
				absent++
			}
		}
		if absent*2 <= len(p.Tags) {
			continue
		}
		gaps = append(gaps, Gap{
			Type:        "missed_principle",
			Description: fmt.Sprintf("The decision does not reflect principle %d (%s), which matched this situation.", p.ID, p.Title),
			Severity:    missedPrincipleSeverity,
		})
		id := p.ID
		lessons = append(lessons, Lesson{
			Insight:     fmt.Sprintf("Principle %d (%s) applied here but was not used.", p.ID, p.Title),
			Actionable:  fmt.Sprintf("Before deciding in similar situations, check against principle %d.", p.ID),
			PrincipleID: &id,
		})
	}

	if len(gaps) == 0 {
		outcome := strings.ToLower(hist.ActualOutcome)
		for _, word := range negativeOutcomeWords {
			if strings.Contains(outcome, word) {
				gaps = append(gaps, Gap{
					Type:        "bad_outcome_blindspot",
					Description: "The outcome reads negative, but no specific principle gap was identified. Something outside the matched principles went wrong.",
					Severity:    badOutcomeSeverity,
				})
				lessons = append(lessons, Lesson{
					Insight:    "A poor outcome without an identified principle gap suggests the principle corpus has a blind spot for this situation.",
					Actionable: "Write down what signal was missed and consider adding a principle or SOP trigger for it.",
				})
				break
			}
		}
	}

	return gaps, lessons
}
