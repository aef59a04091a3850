package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
)

func TestReviewBackOff(t *testing.T) {
	b := reviewBackOff(context.Background())
	b.Reset()

	var prev time.Duration
	for i := 0; i < maxReviewAttempts-1; i++ {
		next := b.NextBackOff()
		if next == backoff.Stop {
			t.Fatalf("stopped after %d retries, want %d", i, maxReviewAttempts-1)
		}
		if next <= 0 || next > 300*time.Millisecond {
			t.Fatalf("retry %d waits %v", i, next)
		}
		prev = next
	}
	if next := b.NextBackOff(); next != backoff.Stop {
		t.Fatalf("retry past the limit waits %v (last %v), want Stop", next, prev)
	}
}

func TestReviewBackOffStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := reviewBackOff(ctx)
	b.Reset()
	cancel()

	if next := b.NextBackOff(); next != backoff.Stop {
		t.Fatalf("cancelled context waits %v, want Stop", next)
	}
}
