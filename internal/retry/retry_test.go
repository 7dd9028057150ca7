package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var fastPolicy = Policy{
	MaxRetries: 3,
	BaseDelay:  time.Millisecond,
	MaxDelay:   5 * time.Millisecond,
	Timeout:    time.Second,
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastPolicy, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("temporary failure")
		}
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("unexpected result %q %v", got, err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoGivesUp(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := Do(context.Background(), fastPolicy, func(ctx context.Context) (int, error) {
		calls++
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if calls != fastPolicy.MaxRetries+1 {
		t.Fatalf("expected %d calls, got %d", fastPolicy.MaxRetries+1, calls)
	}
}

func TestDoStopsOnPermanent(t *testing.T) {
	boom := errors.New("bad request")
	calls := 0
	_, err := Do(context.Background(), fastPolicy, func(ctx context.Context) (int, error) {
		calls++
		return 0, Permanent(boom)
	})
	if calls != 1 {
		t.Fatalf("permanent error retried %d times", calls)
	}
	if !errors.Is(err, boom) || !IsPermanent(err) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDoHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := Do(ctx, fastPolicy, func(ctx context.Context) (int, error) {
		calls++
		return 1, nil
	})
	if !errors.Is(err, context.Canceled) || calls != 0 {
		t.Fatalf("expected cancellation before first call, got err=%v calls=%d", err, calls)
	}
}

func TestBackoffCapped(t *testing.T) {
	for attempt := 0; attempt < 40; attempt++ {
		if d := backoff(attempt, time.Millisecond, 10*time.Millisecond); d > 10*time.Millisecond || d <= 0 {
			t.Fatalf("attempt %d: delay %v out of range", attempt, d)
		}
	}
}
