package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different key should also work
	if err := limiter.Wait(ctx, "anthropic"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if limiter.Len() != 2 {
		t.Errorf("expected 2 tracked keys, got %d", limiter.Len())
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "k"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "k"); err == nil {
		t.Error("expected error when the next token is beyond the deadline")
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	start := time.Now()
	err := limiter.WaitWithDelay(ctx, "example.com", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}

	duration := time.Since(start)
	if duration < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", duration)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "10.0.0.1"); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst 1 means the token is consumed
	if limiter.Allow("10.0.0.1") {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	if !limiter.Allow("10.0.0.2") {
		t.Errorf("expected allow for other key")
	}
}

func TestLimiter_RetryAfter(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if d := limiter.RetryAfter("ip"); d != 0 {
		t.Errorf("expected no delay for fresh key, got %v", d)
	}

	if !limiter.Allow("ip") {
		t.Fatal("expected first request to pass")
	}
	d := limiter.RetryAfter("ip")
	if d <= 0 || d > time.Second {
		t.Errorf("expected delay in (0, 1s], got %v", d)
	}

	// RetryAfter must not consume the token it reports on
	if limiter.RetryAfter("ip") > time.Second {
		t.Error("RetryAfter consumed a reservation")
	}
}

func TestLimiter_RetryAfterKeepsToken(t *testing.T) {
	limiter := NewLimiter(0.001, 1)

	if d := limiter.RetryAfter("k"); d != 0 {
		t.Errorf("expected no delay before any request, got %v", d)
	}
	if !limiter.Allow("k") {
		t.Fatal("expected the token to still be available after RetryAfter")
	}

	d := limiter.RetryAfter("k")
	if d < 900*time.Second || d > 1000*time.Second {
		t.Errorf("expected roughly 1000s for an empty bucket at 0.001/s, got %v", d)
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	key := "slow"

	limiter.SetRate(key, 0.1, 1)

	if !limiter.Allow(key) {
		t.Errorf("first request should pass")
	}
	if limiter.Allow(key) {
		t.Errorf("second request should fail")
	}
	if !limiter.Allow("fast") {
		t.Errorf("other key should pass")
	}
}

func TestHostKey(t *testing.T) {
	host, err := HostKey("http://example.com/foo")
	if err != nil {
		t.Fatalf("HostKey failed: %v", err)
	}
	if host != "example.com" {
		t.Errorf("expected example.com, got %s", host)
	}

	_, err = HostKey("::invalid")
	if err == nil {
		t.Errorf("expected error for invalid URL")
	}
}

func TestExpiringLimiter_DropsIdleKeys(t *testing.T) {
	limiter := NewExpiringLimiter(0.001, 1, 50*time.Millisecond)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("expected first request to pass")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("expected second request to be limited")
	}

	deadline := time.Now().Add(2 * time.Second)
	for limiter.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected idle key to be evicted, still tracking %d", limiter.Len())
		}
		time.Sleep(20 * time.Millisecond)
	}

	// A forgotten key starts over with a full bucket
	if !limiter.Allow("10.0.0.1") {
		t.Error("expected evicted key to get a fresh bucket")
	}
}

func TestExpiringLimiter_ActiveKeyKept(t *testing.T) {
	limiter := NewExpiringLimiter(1000, 10, 100*time.Millisecond)

	for i := 0; i < 6; i++ {
		limiter.Allow("busy")
		time.Sleep(30 * time.Millisecond)
	}
	if limiter.Len() != 1 {
		t.Errorf("expected active key to stay tracked, got %d keys", limiter.Len())
	}
}
