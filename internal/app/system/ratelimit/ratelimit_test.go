package ratelimit

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLimiter_AllowWithinWindow(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Stop()

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("first two hits should be allowed")
	}
	if l.Allow("k") {
		t.Error("third hit should be rejected")
	}
	if l.Remaining("k") != 0 {
		t.Errorf("Remaining = %d, want 0", l.Remaining("k"))
	}
	if !l.Allow("other") {
		t.Error("other key should be independent")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second hit in window should be rejected")
	}
	now = now.Add(61 * time.Second)
	if !l.Allow("k") {
		t.Error("hit after window should be allowed")
	}
}

func TestLimiter_ResetAndSweep(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()

	now := time.Now()
	l.now = func() time.Time { return now }
	l.Allow("a")
	l.Allow("b")
	l.Reset("a")
	if l.Remaining("a") != 1 {
		t.Errorf("Remaining after Reset = %d, want 1", l.Remaining("a"))
	}

	now = now.Add(2 * time.Minute)
	l.sweep()
	l.mu.Lock()
	n := len(l.windows)
	l.mu.Unlock()
	if n != 0 {
		t.Errorf("sweep left %d windows", n)
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	l := New(1, time.Second)
	l.Stop()
	l.Stop()
}

func TestLoginLimiter(t *testing.T) {
	l := NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)
	defer l.Stop()

	if !l.Allow("1.1.1.1", "9876543210") || !l.Allow("2.2.2.2", "9876543210") {
		t.Fatal("first two attempts should pass")
	}
	if l.Allow("3.3.3.3", "9876543210") {
		t.Error("third attempt on same mobile should fail")
	}
	l.Succeeded("9876543210")
	if !l.Allow("3.3.3.3", "9876543210") {
		t.Error("attempt after success reset should pass")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := ClientIP(req); got != "10.0.0.1" {
		t.Errorf("RemoteAddr: got %q", got)
	}

	req.Header.Set("X-Real-IP", "10.0.0.2")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.3")
	if got := ClientIP(req); got != "10.0.0.1" {
		t.Errorf("forwarding headers must be ignored: got %q", got)
	}
}

func TestLoginLimiter_RotatedForwardedForStillLimited(t *testing.T) {
	l := NewLoginLimiter()
	defer l.Stop()

	blocked := false
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "198.51.100.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		if !l.Allow(ClientIP(req), fmt.Sprintf("98000%05d", i)) {
			blocked = true
			break
		}
	}
	if !blocked {
		t.Error("rotating X-Forwarded-For bypassed the per-IP limit")
	}
}
