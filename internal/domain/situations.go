package domain

import (
	"fmt"
	"strings"
	"time"
)

// Stakes is the importance level of a situation.
type Stakes string

const (
	StakesLow      Stakes = "low"
	StakesMedium   Stakes = "medium"
	StakesHigh     Stakes = "high"
	StakesCritical Stakes = "critical"
)

// LifeDomain is the area of life a situation belongs to.
type LifeDomain string

const (
	DomainPersonal     LifeDomain = "personal"
	DomainProfessional LifeDomain = "professional"
	DomainFamily       LifeDomain = "family"
	DomainFinancial    LifeDomain = "financial"
	DomainHealth       LifeDomain = "health"
	DomainSocial       LifeDomain = "social"
)

// SituationContext carries the structured facts around a situation.
type SituationContext struct {
	Facts        []string `yaml:"facts,omitempty" json:"facts,omitempty"`
	Emotions     []string `yaml:"emotions,omitempty" json:"emotions,omitempty"`
	Stakeholders []string `yaml:"stakeholders,omitempty" json:"stakeholders,omitempty"`
	Constraints  []string `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	Timeline     string   `yaml:"timeline,omitempty" json:"timeline,omitempty"`
	PriorActions []string `yaml:"prior_actions,omitempty" json:"prior_actions,omitempty"`
}

// Summary flattens the context into one searchable line.
func (c *SituationContext) Summary() string {
	var parts []string
	if len(c.Facts) > 0 {
		parts = append(parts, "Facts: "+strings.Join(c.Facts, ", "))
	}
	if len(c.Emotions) > 0 {
		parts = append(parts, "Emotions: "+strings.Join(c.Emotions, ", "))
	}
	if len(c.Stakeholders) > 0 {
		parts = append(parts, "Stakeholders: "+strings.Join(c.Stakeholders, ", "))
	}
	if len(c.Constraints) > 0 {
		parts = append(parts, "Constraints: "+strings.Join(c.Constraints, ", "))
	}
	return strings.Join(parts, " | ")
}

// Situation is one scenario under evaluation. Created per request and not
// persisted.
type Situation struct {
	ID          string           `yaml:"id" json:"id"`
	Description string           `yaml:"description" json:"description"`
	Context     SituationContext `yaml:"context,omitempty" json:"context,omitempty"`
	Stakes      Stakes           `yaml:"stakes,omitempty" json:"stakes,omitempty"`
	Domain      LifeDomain       `yaml:"domain,omitempty" json:"domain,omitempty"`
	Tags        []string         `yaml:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt   time.Time        `yaml:"created_at,omitempty" json:"created_at,omitempty"`
}

// FullDescription is the description plus the context summary. This is
// the text all matchers and SOP triggers search.
func (s *Situation) FullDescription() string {
	summary := s.Context.Summary()
	if summary == "" {
		return s.Description
	}
	return s.Description + "\nContext: " + summary
}

// Normalize fills enum defaults so zero-value YAML/JSON payloads behave
// like the documented defaults.
func (s *Situation) Normalize() {
	if s.Stakes == "" {
		s.Stakes = StakesMedium
	}
	if s.Domain == "" {
		s.Domain = DomainPersonal
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
}

// Validate rejects structurally invalid situations with field-level
// detail. This is the only failure surfaced to evaluate() callers.
func (s *Situation) Validate() error {
	if strings.TrimSpace(s.Description) == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	switch s.Stakes {
	case "", StakesLow, StakesMedium, StakesHigh, StakesCritical:
	default:
		return &ValidationError{Field: "stakes", Reason: fmt.Sprintf("unknown level %q", s.Stakes)}
	}
	switch s.Domain {
	case "", DomainPersonal, DomainProfessional, DomainFamily, DomainFinancial, DomainHealth, DomainSocial:
	default:
		return &ValidationError{Field: "domain", Reason: fmt.Sprintf("unknown domain %q", s.Domain)}
	}
	return nil
}

// HistoricalSituation is a past situation plus what actually happened,
// for retrospective gap analysis.
type HistoricalSituation struct {
	Situation       `yaml:",inline" json:",inline"`
	ActualDecision  string     `yaml:"actual_decision" json:"actual_decision"`
	ActualOutcome   string     `yaml:"actual_outcome" json:"actual_outcome"`
	DecisionDate    *time.Time `yaml:"decision_date,omitempty" json:"decision_date,omitempty"`
	ReflectionNotes string     `yaml:"reflection_notes,omitempty" json:"reflection_notes,omitempty"`
	LessonsLearned  []string   `yaml:"lessons_learned,omitempty" json:"lessons_learned,omitempty"`
}

// AnalysisSummary formats the record for reasoning prompts.
func (h *HistoricalSituation) AnalysisSummary() string {
	return fmt.Sprintf("Situation: %s\nDecision: %s\nOutcome: %s",
		h.Description, h.ActualDecision, h.ActualOutcome)
}

// Validate extends Situation validation with the historical fields.
func (h *HistoricalSituation) Validate() error {
	if err := h.Situation.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(h.ActualDecision) == "" {
		return &ValidationError{Field: "actual_decision", Reason: "must not be empty"}
	}
	if strings.TrimSpace(h.ActualOutcome) == "" {
		return &ValidationError{Field: "actual_outcome", Reason: "must not be empty"}
	}
	return nil
}

// ValidationError reports which field of an input payload was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid situation: field %q %s", e.Field, e.Reason)
}
