// Package ratelimit throttles login attempts per client IP and per mobile
// number using fixed windows held in memory.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// Limiter counts hits per key within a fixed window. It is safe for
// concurrent use. Call Stop to end the background janitor.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

type window struct {
	count     int
	expiresAt time.Time
}

// New returns a limiter allowing limit hits per key per duration.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go l.janitor(2 * duration)
	return l
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining reports how many hits key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	if r := l.limit - w.count; r > 0 {
		return r
	}
	return 0
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Stop ends the janitor goroutine and waits for it.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
}

func (l *Limiter) janitor(every time.Duration) {
	defer close(l.done)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-t.C:
			l.sweep()
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, k)
		}
	}
}

// ClientIP returns the host part of RemoteAddr. Forwarding headers are not
// read here; behind a trusted proxy the router rewrites RemoteAddr first.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter combines an IP limiter and a per-mobile limiter so that
// neither a single client nor a single account can be hammered.
type LoginLimiter struct {
	ip     *Limiter
	mobile *Limiter
}

// NewLoginLimiter allows 10 attempts per IP per minute and 5 per mobile
// number per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return NewLoginLimiterWithConfig(10, time.Minute, 5, 5*time.Minute)
}

func NewLoginLimiterWithConfig(ipLimit int, ipWindow time.Duration, mobileLimit int, mobileWindow time.Duration) *LoginLimiter {
	return &LoginLimiter{
		ip:     New(ipLimit, ipWindow),
		mobile: New(mobileLimit, mobileWindow),
	}
}

// Allow records an attempt and reports whether it may proceed. Both limits
// are charged even when the first one rejects.
func (l *LoginLimiter) Allow(ip, mobile string) bool {
	ipOK := l.ip.Allow(ip)
	mobileOK := l.mobile.Allow(mobile)
	return ipOK && mobileOK
}

// Succeeded clears the mobile counter after a successful login.
func (l *LoginLimiter) Succeeded(mobile string) {
	l.mobile.Reset(mobile)
}

// Stop ends both janitors.
func (l *LoginLimiter) Stop() {
	l.ip.Stop()
	l.mobile.Stop()
}
