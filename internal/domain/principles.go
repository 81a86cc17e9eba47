package domain

import (
	"fmt"
	"strings"
)

// PrincipleCategory groups related principles.
type PrincipleCategory string

const (
	CategorySelfManagement PrincipleCategory = "self_management"
	CategoryCommunication  PrincipleCategory = "communication"
	CategoryDecisionMaking PrincipleCategory = "decision_making"
	CategoryRelationships  PrincipleCategory = "relationships"
	CategoryProfessional   PrincipleCategory = "professional"
	CategoryGrowthLearning PrincipleCategory = "growth_learning"
	CategoryFinancial      PrincipleCategory = "financial"
	CategoryHealth         PrincipleCategory = "health_wellbeing"
	CategoryFamily         PrincipleCategory = "family"
)

// SubPrinciple is one lettered sub-point within a principle.
type SubPrinciple struct {
	ID       string   `yaml:"id" json:"id"`
	Text     string   `yaml:"text" json:"text"`
	SubItems []string `yaml:"sub_items,omitempty" json:"sub_items,omitempty"`
}

// Principle is a titled guidance rule. Identity is the integer ID, unique
// within the corpus. Read-only to the matching pipeline.
type Principle struct {
	ID              int                 `yaml:"id" json:"id"`
	Title           string              `yaml:"title" json:"title"`
	SubPrinciples   []SubPrinciple      `yaml:"sub_principles,omitempty" json:"sub_principles,omitempty"`
	RelatedSOPIDs   []int               `yaml:"related_sop_ids,omitempty" json:"related_sop_ids,omitempty"`
	RelatedValueIDs []string            `yaml:"related_value_ids,omitempty" json:"related_value_ids,omitempty"`
	Categories      []PrincipleCategory `yaml:"categories,omitempty" json:"categories,omitempty"`
	Tags            []string            `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// HasTag reports whether the principle carries the tag, case-insensitive.
func (p *Principle) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// EmbeddingText is the text embedded for semantic matching: the title
// concatenated with the tags.
func (p *Principle) EmbeddingText() string {
	if len(p.Tags) == 0 {
		return p.Title
	}
	return p.Title + " " + strings.Join(p.Tags, " ")
}

// FullText renders the principle with its sub-principles, for reports.
func (p *Principle) FullText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s", p.ID, p.Title)
	for _, sub := range p.SubPrinciples {
		fmt.Fprintf(&b, "\n   %s. %s", sub.ID, sub.Text)
		for _, item := range sub.SubItems {
			fmt.Fprintf(&b, "\n      - %s", item)
		}
	}
	return b.String()
}

func (p *Principle) String() string {
	return fmt.Sprintf("Principle %d: %s", p.ID, p.Title)
}
