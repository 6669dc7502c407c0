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

	if err := limiter.Wait(ctx, "https://media.wizards.com/rules.txt"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different host should also work
	if err := limiter.Wait(ctx, "https://example.com"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

// allowed reports whether a request to rawURL gets a token without waiting
func allowed(l *Limiter, rawURL string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	return l.Wait(ctx, rawURL) == nil
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	url := "https://media.wizards.com"

	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst of 1 is consumed
	if allowed(limiter, url) {
		t.Errorf("expected wait to fail (exhausted tokens)")
	}

	if !allowed(limiter, "https://other.com") {
		t.Errorf("expected wait to pass for other host")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		if !allowed(limiter, "https://media.wizards.com") {
			t.Fatalf("expected unlimited limiter to allow request %d", i)
		}
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	host := "slow.com"

	limiter.SetHostRate(host, 0.1, 1)

	if !allowed(limiter, "http://"+host) {
		t.Errorf("first request should pass")
	}
	if allowed(limiter, "http://"+host) {
		t.Errorf("second request should fail")
	}
	if !allowed(limiter, "http://fast.com") {
		t.Errorf("other host should pass")
	}
}

func TestLimiter_SetCrawlDelay(t *testing.T) {
	limiter := NewLimiter(100, 10)
	limiter.SetCrawlDelay("media.wizards.com", 10*time.Second)

	if !allowed(limiter, "https://media.wizards.com/a") {
		t.Errorf("first request should pass")
	}
	if allowed(limiter, "https://media.wizards.com/b") {
		t.Errorf("second request should wait for the crawl delay")
	}

	// Zero delay leaves the default in place
	limiter.SetCrawlDelay("fast.com", 0)
	for i := 0; i < 5; i++ {
		if !allowed(limiter, "https://fast.com") {
			t.Fatalf("expected default rate for fast.com, request %d denied", i)
		}
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	url := "https://media.wizards.com"
	_ = limiter.Wait(context.Background(), url)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected error when context expires before a token is available")
	}
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("http://example.com:8080/foo")
	if err != nil {
		t.Fatalf("extractHost failed: %v", err)
	}
	if host != "example.com:8080" {
		t.Errorf("expected example.com:8080, got %s", host)
	}

	_, err = extractHost("::invalid")
	if err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
