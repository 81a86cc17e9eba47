package reasoning

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"praxis/internal/provider"
)

type fakeClient struct {
	name  string
	text  string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeClient) Name() string { return f.name }

func TestChainPrimarySucceeds(t *testing.T) {
	a := &fakeClient{name: "a", text: "answer"}
	b := &fakeClient{name: "b", text: "unused"}
	chain := NewChain(zap.NewNop(), []CompletionClient{a, b}, 0)

	res := chain.Complete(context.Background(), "prompt")
	if !res.OK() || res.Text != "answer" || res.Fallback {
		t.Fatalf("unexpected result: %+v", res)
	}
	if b.calls != 0 {
		t.Fatal("secondary must not be called when primary succeeds")
	}
}

func TestChainAdvancesOnFailure(t *testing.T) {
	a := &fakeClient{name: "a", err: provider.ErrUnavailable}
	b := &fakeClient{name: "b", text: "rescued"}
	chain := NewChain(zap.NewNop(), []CompletionClient{a, b}, 0)

	res := chain.Complete(context.Background(), "prompt")
	if !res.OK() || res.Text != "rescued" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !res.Fallback || res.Provider != "b" {
		t.Fatalf("fallback not recorded: %+v", res)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("each client tried exactly once, got %d/%d", a.calls, b.calls)
	}
}

func TestChainTimeoutAdvances(t *testing.T) {
	slow := &fakeClient{name: "slow", text: "late", delay: 200 * time.Millisecond}
	fast := &fakeClient{name: "fast", text: "in time"}
	chain := NewChain(zap.NewNop(), []CompletionClient{slow, fast}, 20*time.Millisecond)

	res := chain.Complete(context.Background(), "prompt")
	if !res.OK() || res.Text != "in time" {
		t.Fatalf("timeout should advance the chain: %+v", res)
	}
}

func TestChainExhaustion(t *testing.T) {
	a := &fakeClient{name: "a", err: provider.ErrRequestFailed}
	b := &fakeClient{name: "b", err: provider.ErrResponseMalformed}
	chain := NewChain(zap.NewNop(), []CompletionClient{a, b}, 0)

	res := chain.Complete(context.Background(), "prompt")
	if res.OK() {
		t.Fatal("expected definitive failure")
	}
	if res.Err == nil {
		t.Fatal("failure must carry joined errors")
	}
}

func TestChainEmptyCompletionIsMalformed(t *testing.T) {
	empty := &fakeClient{name: "empty", text: ""}
	chain := NewChain(zap.NewNop(), []CompletionClient{empty}, 0)

	res := chain.Complete(context.Background(), "prompt")
	if res.OK() {
		t.Fatal("empty completion must count as a failure")
	}
}
