package embedding

import (
	"errors"
	"testing"

	"praxis/internal/provider"
)

func TestGenAIEngineMissingKeyIsUnavailable(t *testing.T) {
	_, err := NewGenAIEngine("", "", "")
	if err == nil {
		t.Fatal("missing API key must fail construction")
	}
	if !errors.Is(err, provider.ErrUnavailable) {
		t.Fatalf("err = %v, want provider.ErrUnavailable so the chain skips without a network call", err)
	}
}
