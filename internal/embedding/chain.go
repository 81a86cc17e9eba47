package embedding

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"praxis/internal/provider"
)

// DefaultCacheSize bounds the text→vector cache.
const DefaultCacheSize = 512

// DefaultTimeout bounds each backend attempt. Expiry counts as a request
// failure and advances the chain.
const DefaultTimeout = 30 * time.Second

// Result is the tagged outcome of a chain embed call.
type Result struct {
	Vector    []float32
	Provider  string // engine that served the vector, "" on failure
	FromCache bool
	Fallback  bool  // a non-primary engine served
	Err       error // joined per-engine failures when Vector is nil
}

// OK reports whether a vector was produced.
func (r Result) OK() bool { return len(r.Vector) > 0 }

// Chain tries an ordered list of embedding engines until one succeeds.
// Results are memoized by exact input text in a bounded LRU cache. No
// engine is retried within a call; failure advances to the next link,
// and exhausting the chain is a definitive failure, never a panic.
type Chain struct {
	engines []Engine
	cache   *vectorCache
	timeout time.Duration
	log     *zap.Logger
}

// ChainOption customizes a Chain.
type ChainOption func(*Chain)

// WithCacheSize bounds the embed cache to n entries.
func WithCacheSize(n int) ChainOption {
	return func(c *Chain) {
		if n > 0 {
			c.cache = newVectorCache(n)
		}
	}
}

// WithTimeout bounds each backend attempt.
func WithTimeout(d time.Duration) ChainOption {
	return func(c *Chain) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewChain creates a chain over the given engines, tried in order. Nil
// engines are skipped.
func NewChain(log *zap.Logger, engines []Engine, opts ...ChainOption) *Chain {
	if log == nil {
		log = zap.NewNop()
	}
	kept := make([]Engine, 0, len(engines))
	for _, e := range engines {
		if e != nil {
			kept = append(kept, e)
		}
	}
	c := &Chain{
		engines: kept,
		cache:   newVectorCache(DefaultCacheSize),
		timeout: DefaultTimeout,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Providers returns the names of the configured engines in order.
func (c *Chain) Providers() []string {
	names := make([]string, len(c.engines))
	for i, e := range c.engines {
		names[i] = e.Name()
	}
	return names
}

// Embed returns a vector for the text, serving from cache when the exact
// text was embedded before.
func (c *Chain) Embed(ctx context.Context, text string) Result {
	if vec, who, fell, ok := c.cache.get(text); ok {
		return Result{Vector: vec, Provider: who, FromCache: true, Fallback: fell}
	}

	if len(c.engines) == 0 {
		return Result{Err: provider.ErrUnavailable}
	}

	var failures []error
	for i, engine := range c.engines {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		vec, err := engine.Embed(attemptCtx, text)
		cancel()

		if err == nil && len(vec) > 0 {
			c.cache.put(text, vec, engine.Name(), i > 0)
			return Result{
				Vector:   vec,
				Provider: engine.Name(),
				Fallback: i > 0,
			}
		}
		if err == nil {
			err = provider.ErrResponseMalformed
		}
		c.log.Warn("embedding backend failed, advancing chain",
			zap.String("engine", engine.Name()),
			zap.Error(err))
		failures = append(failures, err)
	}

	return Result{Err: errors.Join(failures...)}
}

// vectorCache is a bounded, mutex-guarded text→vector cache with
// least-recently-used eviction.
type vectorCache struct {
	mu      sync.Mutex
	entries map[string]*vectorEntry
	maxSize int
	clock   int64
}

type vectorEntry struct {
	vector   []float32
	provider string
	fallback bool
	lastUsed int64
}

func newVectorCache(maxSize int) *vectorCache {
	return &vectorCache{
		entries: make(map[string]*vectorEntry),
		maxSize: maxSize,
	}
}

func (c *vectorCache) get(text string) ([]float32, string, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[text]
	if !ok {
		return nil, "", false, false
	}
	c.clock++
	entry.lastUsed = c.clock
	return entry.vector, entry.provider, entry.fallback, true
}

func (c *vectorCache) put(text string, vector []float32, providerName string, fallback bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictLRU()
	}

	c.clock++
	c.entries[text] = &vectorEntry{
		vector:   vector,
		provider: providerName,
		fallback: fallback,
		lastUsed: c.clock,
	}
}

func (c *vectorCache) evictLRU() {
	var oldestKey string
	var oldestUse int64

	for key, entry := range c.entries {
		if oldestKey == "" || entry.lastUsed < oldestUse {
			oldestKey = key
			oldestUse = entry.lastUsed
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *vectorCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
