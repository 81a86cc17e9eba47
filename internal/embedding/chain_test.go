package embedding

import (
	"context"
	"fmt"
	"math"
	"testing"

	"go.uber.org/zap"

	"praxis/internal/provider"
)

// fakeEngine counts transport invocations.
type fakeEngine struct {
	name   string
	vector []float32
	err    error
	calls  int
}

func (f *fakeEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEngine) Dimensions() int { return len(f.vector) }
func (f *fakeEngine) Name() string    { return f.name }

func TestChainCacheHitSkipsTransport(t *testing.T) {
	eng := &fakeEngine{name: "fake", vector: []float32{1, 0}}
	chain := NewChain(zap.NewNop(), []Engine{eng})

	first := chain.Embed(context.Background(), "same text")
	if !first.OK() || first.FromCache {
		t.Fatalf("first call: %+v", first)
	}

	second := chain.Embed(context.Background(), "same text")
	if !second.OK() || !second.FromCache {
		t.Fatalf("second call should be cached: %+v", second)
	}
	if second.Provider != "fake" {
		t.Fatalf("cached result lost provider attribution: %q", second.Provider)
	}
	if eng.calls != 1 {
		t.Fatalf("transport invoked %d times, want exactly 1", eng.calls)
	}
}

func TestChainFallsBackToSecondary(t *testing.T) {
	primary := &fakeEngine{name: "primary", err: provider.ErrRequestFailed}
	secondary := &fakeEngine{name: "secondary", vector: []float32{0, 1}}
	chain := NewChain(zap.NewNop(), []Engine{primary, secondary})

	res := chain.Embed(context.Background(), "x")
	if !res.OK() {
		t.Fatalf("expected fallback success, got err=%v", res.Err)
	}
	if !res.Fallback || res.Provider != "secondary" {
		t.Fatalf("fallback not recorded: %+v", res)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("each engine tried exactly once, got %d/%d", primary.calls, secondary.calls)
	}
}

func TestChainCacheHitKeepsFallbackAttribution(t *testing.T) {
	primary := &fakeEngine{name: "primary", err: provider.ErrRequestFailed}
	secondary := &fakeEngine{name: "secondary", vector: []float32{0, 1}}
	chain := NewChain(zap.NewNop(), []Engine{primary, secondary})

	first := chain.Embed(context.Background(), "x")
	if !first.OK() || !first.Fallback {
		t.Fatalf("first call should fall back: %+v", first)
	}

	second := chain.Embed(context.Background(), "x")
	if !second.FromCache {
		t.Fatalf("second call should be cached: %+v", second)
	}
	if !second.Fallback || second.Provider != "secondary" {
		t.Fatalf("cached result lost fallback attribution: %+v", second)
	}
}

func TestChainExhaustionIsDefinitiveFailure(t *testing.T) {
	a := &fakeEngine{name: "a", err: provider.ErrUnavailable}
	b := &fakeEngine{name: "b", err: provider.ErrRequestFailed}
	chain := NewChain(zap.NewNop(), []Engine{a, b})

	res := chain.Embed(context.Background(), "x")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Err == nil {
		t.Fatal("failure must carry joined errors")
	}
	// No automatic retry of the same provider.
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("retry detected: a=%d b=%d", a.calls, b.calls)
	}
}

func TestChainNoEngines(t *testing.T) {
	chain := NewChain(zap.NewNop(), nil)
	res := chain.Embed(context.Background(), "x")
	if res.OK() || res.Err == nil {
		t.Fatalf("empty chain must fail definitively: %+v", res)
	}
}

func TestVectorCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := newVectorCache(2)
	cache.put("a", []float32{1}, "e", false)
	cache.put("b", []float32{2}, "e", false)

	// Touch "a" so "b" becomes the LRU entry.
	if _, _, _, ok := cache.get("a"); !ok {
		t.Fatal("a should be cached")
	}

	cache.put("c", []float32{3}, "e", false)

	if _, _, _, ok := cache.get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, _, _, ok := cache.get("a"); !ok {
		t.Fatal("a should survive eviction")
	}
	if cache.len() != 2 {
		t.Fatalf("cache size %d, want 2", cache.len())
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		a, b []float32
		want float64
	}{
		{[]float32{1, 0}, []float32{1, 0}, 1.0},
		{[]float32{1, 0}, []float32{0, 1}, 0.0},
		{[]float32{1, 0}, []float32{-1, 0}, -1.0},
		{[]float32{0, 0}, []float32{1, 0}, 0.0}, // zero magnitude
	}
	for i, tc := range cases {
		got, err := CosineSimilarity(tc.a, tc.b)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("case %d: got %f, want %f", i, got, tc.want)
		}
	}
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0})
	if err == nil {
		t.Fatal("dimension mismatch must error")
	}
	if got := fmt.Sprint(err); got == "" {
		t.Fatal("error should describe the mismatch")
	}
}
