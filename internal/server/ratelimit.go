package server

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// rateLimiter throttles mutating requests per (action, client) pair.
// A zero interval disables limiting entirely.
type rateLimiter struct {
	mu    sync.Mutex
	every time.Duration
	last  map[string]time.Time
}

func newRateLimiter(every time.Duration) *rateLimiter {
	return &rateLimiter{
		every: every,
		last:  make(map[string]time.Time),
	}
}

func (l *rateLimiter) allow(key string) bool {
	if l.every <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if previous, ok := l.last[key]; ok && now.Sub(previous) < l.every {
		return false
	}
	l.last[key] = now
	return true
}

func (s *Server) enforceRateLimit(w http.ResponseWriter, r *http.Request, action string) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if s.limiter.allow(action + ":" + host) {
		return true
	}
	writeError(w, http.StatusTooManyRequests, "too many requests")
	return false
}
