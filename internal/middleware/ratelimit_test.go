package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsUpToRate(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d denied below the limit", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request over the limit was allowed")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	defer rl.Stop()

	if !rl.allow("10.0.0.1") {
		t.Fatal("first client denied")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("second client shares the first client's bucket")
	}
}

func TestRateLimiterRefillsAfterInterval(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	defer rl.Stop()

	if !rl.allow("10.0.0.1") {
		t.Fatal("first request denied")
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("bucket not drained")
	}

	time.Sleep(15 * time.Millisecond)
	if !rl.allow("10.0.0.1") {
		t.Error("bucket did not refill after the interval")
	}
}

func TestRateLimiterStopEndsEviction(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	rl.Stop()

	// The limiter still serves requests after Stop; only eviction ends.
	if !rl.allow("10.0.0.1") {
		t.Error("allow failed after Stop")
	}
}
