package reasoning

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"praxis/internal/provider"
)

// DefaultTimeout bounds each provider attempt. Expiry is a provider
// failure and advances the chain.
const DefaultTimeout = 60 * time.Second

// Result is the tagged outcome of a chain completion call.
type Result struct {
	Text     string
	Provider string // client that served, "" on failure
	Fallback bool   // a non-primary client served
	Err      error  // joined per-client failures when Text is empty
}

// OK reports whether a completion was produced.
func (r Result) OK() bool { return r.Err == nil }

// Chain tries an ordered list of completion clients until one succeeds.
// No client is retried within a call. Exhausting the chain is a
// definitive failure the caller degrades from; nothing panics.
type Chain struct {
	clients []CompletionClient
	timeout time.Duration
	log     *zap.Logger
}

// NewChain creates a chain over the given clients, tried in order. Nil
// clients are skipped.
func NewChain(log *zap.Logger, clients []CompletionClient, timeout time.Duration) *Chain {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	kept := make([]CompletionClient, 0, len(clients))
	for _, c := range clients {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return &Chain{clients: kept, timeout: timeout, log: log}
}

// Providers returns the names of the configured clients in order.
func (c *Chain) Providers() []string {
	names := make([]string, len(c.clients))
	for i, cl := range c.clients {
		names[i] = cl.Name()
	}
	return names
}

// Complete runs the prompt through the chain.
func (c *Chain) Complete(ctx context.Context, prompt string) Result {
	if len(c.clients) == 0 {
		return Result{Err: provider.ErrUnavailable}
	}

	var failures []error
	for i, client := range c.clients {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		text, err := client.Complete(attemptCtx, prompt)
		cancel()

		if err == nil && text != "" {
			return Result{Text: text, Provider: client.Name(), Fallback: i > 0}
		}
		if err == nil {
			err = provider.ErrResponseMalformed
		}
		c.log.Warn("reasoning provider failed, advancing chain",
			zap.String("client", client.Name()),
			zap.Error(err))
		failures = append(failures, err)
	}

	return Result{Err: errors.Join(failures...)}
}
