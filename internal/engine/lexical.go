package engine

import (
	"context"
	"sort"
	"strings"

	"praxis/internal/domain"
)

// Tag and title-keyword weights. Tag overlap dominates; title keywords
// add less, and half as much again when a tag already matched.
const (
	tagBaseScore    = 0.6
	tagPerMatch     = 0.1
	tagScoreCap     = 0.9
	keywordPerMatch = 0.15
	keywordScoreCap = 0.5
)

var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "a": true, "an": true,
	"to": true, "of": true, "in": true, "for": true, "with": true,
}

// LexicalMatcher scores principles by tag and title-keyword overlap with
// the situation text. No external dependency; always available.
type LexicalMatcher struct{}

// NewLexicalMatcher creates a lexical matcher.
func NewLexicalMatcher() *LexicalMatcher { return &LexicalMatcher{} }

// Name returns the strategy name.
func (m *LexicalMatcher) Name() string { return "lexical" }

// Match scores each principle against the situation's full description.
// The sort is stable: ties keep corpus order, which makes the ranking
// deterministic for a fixed corpus and input.
func (m *LexicalMatcher) Match(_ context.Context, situation *domain.Situation, principles []domain.Principle) []PrincipleMatch {
	text := strings.ToLower(situation.FullDescription())

	var matches []PrincipleMatch
	for i := range principles {
		p := &principles[i]

		var reasons []string
		score := 0.0

		var matchedTags []string
		for _, tag := range p.Tags {
			if tag != "" && strings.Contains(text, strings.ToLower(tag)) {
				matchedTags = append(matchedTags, tag)
			}
		}
		if len(matchedTags) > 0 {
			tagScore := tagBaseScore + float64(len(matchedTags))*tagPerMatch
			if tagScore > tagScoreCap {
				tagScore = tagScoreCap
			}
			score += tagScore
			reasons = append(reasons, "Tags: "+strings.Join(matchedTags, ", "))
		}

		var matchedKeywords []string
		for _, word := range strings.Fields(p.Title) {
			w := strings.ToLower(word)
			if stopWords[w] || len(w) <= 3 {
				continue
			}
			if strings.Contains(text, w) {
				matchedKeywords = append(matchedKeywords, w)
			}
		}
		if len(matchedKeywords) > 0 {
			keywordScore := float64(len(matchedKeywords)) * keywordPerMatch
			if keywordScore > keywordScoreCap {
				keywordScore = keywordScoreCap
			}
			// Keywords add less once tags already carry the signal.
			if len(matchedTags) > 0 {
				keywordScore *= 0.5
			}
			score += keywordScore
			reasons = append(reasons, "Keywords: "+strings.Join(matchedKeywords, ", "))
		}

		if score > 0 {
			matches = append(matches, PrincipleMatch{
				Principle: p,
				Score:     clamp01(score),
				Reason:    strings.Join(reasons, "; "),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
