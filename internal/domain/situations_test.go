package domain

import (
	"strings"
	"testing"
)

func TestFullDescriptionIncludesContext(t *testing.T) {
	s := Situation{
		ID:          "s1",
		Description: "Considering a job offer with a tight deadline",
		Context: SituationContext{
			Facts:        []string{"offer expires Friday"},
			Emotions:     []string{"anxious"},
			Stakeholders: []string{"family"},
		},
	}

	full := s.FullDescription()
	if !strings.Contains(full, "Considering a job offer") {
		t.Fatalf("full description missing base description: %q", full)
	}
	if !strings.Contains(full, "Facts: offer expires Friday") {
		t.Fatalf("full description missing facts: %q", full)
	}
	if !strings.Contains(full, "Emotions: anxious") {
		t.Fatalf("full description missing emotions: %q", full)
	}
}

func TestFullDescriptionWithoutContext(t *testing.T) {
	s := Situation{ID: "s1", Description: "plain"}
	if got := s.FullDescription(); got != "plain" {
		t.Fatalf("FullDescription()=%q, want %q", got, "plain")
	}
}

func TestSituationValidate(t *testing.T) {
	cases := []struct {
		name      string
		s         Situation
		wantField string
	}{
		{"empty description", Situation{ID: "x"}, "description"},
		{"blank description", Situation{ID: "x", Description: "   "}, "description"},
		{"bad stakes", Situation{ID: "x", Description: "d", Stakes: "extreme"}, "stakes"},
		{"bad domain", Situation{ID: "x", Description: "d", Domain: "galactic"}, "domain"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.s.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if ve.Field != tc.wantField {
				t.Fatalf("field=%q, want %q", ve.Field, tc.wantField)
			}
		})
	}

	ok := Situation{ID: "x", Description: "d", Stakes: StakesHigh, Domain: DomainFamily}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid situation rejected: %v", err)
	}
}

func TestHistoricalValidate(t *testing.T) {
	h := HistoricalSituation{
		Situation: Situation{ID: "h1", Description: "past call"},
	}
	err := h.Validate()
	if err == nil {
		t.Fatal("expected error for missing actual_decision")
	}
	if !strings.Contains(err.Error(), "actual_decision") {
		t.Fatalf("unexpected error: %v", err)
	}

	h.ActualDecision = "took the offer"
	h.ActualOutcome = "it worked out"
	if err := h.Validate(); err != nil {
		t.Fatalf("valid historical situation rejected: %v", err)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	s := Situation{ID: "x", Description: "d"}
	s.Normalize()
	if s.Stakes != StakesMedium {
		t.Fatalf("stakes default=%q, want medium", s.Stakes)
	}
	if s.Domain != DomainPersonal {
		t.Fatalf("domain default=%q, want personal", s.Domain)
	}
	if s.CreatedAt.IsZero() {
		t.Fatal("created_at not defaulted")
	}
}

func TestSOPTriggerMatchesSubstring(t *testing.T) {
	trig := SOPTrigger{Kind: TriggerEmotional, Condition: "overwhelm", Keywords: []string{"Overwhelmed", "too much"}}
	if !trig.Matches("I am feeling OVERWHELMED by work") {
		t.Fatal("case-insensitive keyword should match")
	}
	if trig.Matches("a calm day") {
		t.Fatal("unrelated text should not match")
	}
	empty := SOPTrigger{Keywords: []string{""}}
	if empty.Matches("anything") {
		t.Fatal("empty keyword must not match everything")
	}
}

func TestPrincipleEmbeddingText(t *testing.T) {
	p := Principle{ID: 1, Title: "Radical honesty", Tags: []string{"honesty", "communication"}}
	if got := p.EmbeddingText(); got != "Radical honesty honesty communication" {
		t.Fatalf("EmbeddingText()=%q", got)
	}
	bare := Principle{ID: 2, Title: "Sleep on it"}
	if got := bare.EmbeddingText(); got != "Sleep on it" {
		t.Fatalf("EmbeddingText()=%q", got)
	}
}

func TestValueSetCoreOrdering(t *testing.T) {
	vs := ValueSet{Values: []Value{
		{ID: "b", Priority: 2, IsCore: true},
		{ID: "a", Priority: 1, IsCore: true},
		{ID: "c", Priority: 3, IsCore: false},
	}}
	core := vs.Core()
	if len(core) != 2 || core[0].ID != "a" || core[1].ID != "b" {
		t.Fatalf("core ordering wrong: %+v", core)
	}
}
