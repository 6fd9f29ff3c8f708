// ABOUTME: Tests for the per-IP rate limiter.
// ABOUTME: Buckets are independent per client address.
package api

import "testing"

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("burst of 2 should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other clients have their own bucket")
	}
}

func TestRateLimiterMinimumBurst(t *testing.T) {
	rl := NewRateLimiter(1, 0)
	if !rl.Allow("ip") {
		t.Error("burst is clamped to at least 1")
	}
}
