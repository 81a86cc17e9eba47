package domain

import (
	"fmt"
	"strings"
)

// TriggerKind classifies the condition that activates an SOP.
type TriggerKind string

const (
	TriggerTimeBased TriggerKind = "time_based"
	TriggerSituation TriggerKind = "situation_based"
	TriggerEmotional TriggerKind = "emotional"
	TriggerExternal  TriggerKind = "external"
	TriggerManual    TriggerKind = "manual"
)

// SOPStep is a single step within an SOP.
type SOPStep struct {
	Number      int    `yaml:"number" json:"number"`
	Instruction string `yaml:"instruction" json:"instruction"`
	Optional    bool   `yaml:"is_optional,omitempty" json:"is_optional,omitempty"`
	Notes       string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// SOPTrigger describes when an SOP activates.
type SOPTrigger struct {
	Kind      TriggerKind `yaml:"trigger_type" json:"trigger_type"`
	Condition string      `yaml:"condition" json:"condition"`
	Keywords  []string    `yaml:"keywords,omitempty" json:"keywords,omitempty"`
}

// Matches reports whether any trigger keyword appears in the situation
// text. Pure case-insensitive substring search, no stemming or
// tokenization.
func (t *SOPTrigger) Matches(situationText string) bool {
	lower := strings.ToLower(situationText)
	for _, kw := range t.Keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// SOP is a named, triggerable step-by-step procedure. Identity is the
// integer ID, unique within the corpus.
type SOP struct {
	ID                  int                  `yaml:"id" json:"id"`
	Name                string               `yaml:"name" json:"name"`
	Purpose             string               `yaml:"purpose" json:"purpose"`
	RelatedPrincipleIDs []int                `yaml:"related_principle_ids,omitempty" json:"related_principle_ids,omitempty"`
	Triggers            []SOPTrigger         `yaml:"triggers,omitempty" json:"triggers,omitempty"`
	Steps               []SOPStep            `yaml:"steps,omitempty" json:"steps,omitempty"`
	Modes               map[string][]SOPStep `yaml:"modes,omitempty" json:"modes,omitempty"`
}

// Triggered reports whether any of the SOP's triggers match the text.
func (s *SOP) Triggered(situationText string) bool {
	for i := range s.Triggers {
		if s.Triggers[i].Matches(situationText) {
			return true
		}
	}
	return false
}

// ModeSteps returns the steps for a named sub-procedure, or nil.
func (s *SOP) ModeSteps(mode string) []SOPStep {
	return s.Modes[mode]
}

// StepsText renders the ordered steps as one line per step.
func (s *SOP) StepsText() string {
	lines := make([]string, 0, len(s.Steps))
	for _, step := range s.Steps {
		marker := ""
		if step.Optional {
			marker = " (optional)"
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s", step.Number, step.Instruction, marker))
	}
	return strings.Join(lines, "\n")
}

func (s *SOP) String() string {
	return fmt.Sprintf("SOP %d: %s", s.ID, s.Name)
}
