package speech

import (
	"context"
	"testing"
	"time"
)

// Smoke test without an API key; it should error quickly and not panic.
func TestElevenLabs_NoKey(t *testing.T) {
	e := NewElevenLabsSynthesizer("", "")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := e.Synthesize(ctx, "hello"); err == nil {
		t.Fatalf("expected error when api key missing")
	}
}
