package engine

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"praxis/internal/domain"
	"praxis/internal/embedding"
)

// DefaultSemanticThreshold is the fixed acceptance threshold for cosine
// similarity between situation and principle vectors.
const DefaultSemanticThreshold = 0.65

// corpusSnapshot is the one-time embedding of the corpus. Immutable once
// built; consumed by every subsequent Match call.
type corpusSnapshot struct {
	vectors  map[int][]float32 // principle id -> vector
	provider string            // engine that embedded the corpus
	fallback bool              // a non-primary engine embedded part of the corpus
}

// SemanticMatcher scores principles by cosine similarity between the
// situation embedding and the corpus embeddings. The corpus is embedded
// once per process through the chain; any embedding failure degrades to
// an empty match list, never an error.
type SemanticMatcher struct {
	chain     *embedding.Chain
	threshold float64
	log       *zap.Logger

	mu       sync.Mutex
	snapshot *corpusSnapshot

	// how the most recent Match's situation embed was served; reset per
	// call so each evaluation reports its own outcome
	lastFallback bool
	lastProvider string
}

// NewSemanticMatcher creates a semantic matcher over the embedding chain.
// A threshold <= 0 uses DefaultSemanticThreshold.
func NewSemanticMatcher(log *zap.Logger, chain *embedding.Chain, threshold float64) *SemanticMatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if threshold <= 0 {
		threshold = DefaultSemanticThreshold
	}
	return &SemanticMatcher{chain: chain, threshold: threshold, log: log}
}

// Name returns the strategy name.
func (m *SemanticMatcher) Name() string { return "semantic" }

// Prepare embeds the corpus into an immutable snapshot. Skipped when the
// snapshot is already populated. A failure on any principle leaves the
// snapshot unpopulated so the next call retries.
func (m *SemanticMatcher) Prepare(ctx context.Context, principles []domain.Principle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prepareLocked(ctx, principles)
}

func (m *SemanticMatcher) prepareLocked(ctx context.Context, principles []domain.Principle) error {
	if m.snapshot != nil {
		return nil
	}

	snap := &corpusSnapshot{vectors: make(map[int][]float32, len(principles))}
	for i := range principles {
		p := &principles[i]
		res := m.chain.Embed(ctx, p.EmbeddingText())
		if !res.OK() {
			return fmt.Errorf("embed principle %d: %w", p.ID, res.Err)
		}
		snap.vectors[p.ID] = res.Vector
		snap.provider = res.Provider
		if res.Fallback {
			snap.fallback = true
		}
	}

	m.snapshot = snap
	m.log.Debug("corpus embedding snapshot built",
		zap.Int("principles", len(snap.vectors)),
		zap.String("provider", snap.provider))
	return nil
}

// Match embeds the situation description and scores it against the
// corpus snapshot. Returns an empty list on any provider failure.
func (m *SemanticMatcher) Match(ctx context.Context, situation *domain.Situation, principles []domain.Principle) []PrincipleMatch {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastProvider = ""
	m.lastFallback = false

	if err := m.prepareLocked(ctx, principles); err != nil {
		m.log.Debug("semantic matching degraded: corpus embedding failed", zap.Error(err))
		return nil
	}

	res := m.chain.Embed(ctx, situation.Description)
	if !res.OK() {
		m.log.Debug("semantic matching degraded: situation embedding failed", zap.Error(res.Err))
		return nil
	}
	m.lastProvider = res.Provider
	m.lastFallback = res.Fallback

	var matches []PrincipleMatch
	for i := range principles {
		p := &principles[i]
		vec, ok := m.snapshot.vectors[p.ID]
		if !ok {
			continue
		}
		similarity, err := embedding.CosineSimilarity(res.Vector, vec)
		if err != nil {
			// Dimension mismatch: the provider serving the situation
			// differs from the one that embedded the corpus. Invalidate
			// the snapshot so the next call rebuilds it.
			m.log.Warn("embedding dimension mismatch, invalidating corpus snapshot",
				zap.String("corpus_provider", m.snapshot.provider),
				zap.String("query_provider", res.Provider))
			m.snapshot = nil
			return nil
		}
		if similarity > m.threshold {
			matches = append(matches, PrincipleMatch{
				Principle: p,
				Score:     clamp01(similarity),
				Reason:    fmt.Sprintf("Semantic similarity: %.2f", similarity),
			})
		}
	}
	return matches
}

// LastOutcome reports how the most recent Match's situation embed was
// served: the provider name (empty when the semantic signal was absent)
// and whether the chain fell back for that call. Corpus-snapshot
// provenance is tracked on the snapshot itself and does not bleed into
// later evaluations.
func (m *SemanticMatcher) LastOutcome() (providerName string, fallback bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastProvider, m.lastFallback
}
