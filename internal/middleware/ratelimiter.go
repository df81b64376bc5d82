package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/haguru/bloguser/internal/metrics"
	"github.com/haguru/bloguser/internal/models/dto"

	"golang.org/x/time/rate"
)

const MsgTooManyRequests = "Too many requests. Please try again later."

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per client key. Buckets idle for
// longer than the idle timeout are dropped; a dropped bucket would have
// refilled by then anyway.
type ClientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
	metrics   interfaces.Metrics
}

// NewClientLimiter allows each client limit requests per second with the
// given burst. Tracked clients are reported on the LoginLimiterClients gauge
// when m is set.
func NewClientLimiter(limit rate.Limit, burst int, idle time.Duration, m interfaces.Metrics) *ClientLimiter {
	// a bucket must not be evicted before it could have refilled
	if limit > 0 {
		if refill := time.Duration(float64(burst) / float64(limit) * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &ClientLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		burst:   burst,
		idle:    idle,
		now:     time.Now,
		metrics: m,
	}
}

// Allow spends one token from key's bucket.
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
		if l.metrics != nil {
			l.metrics.IncGauge(metrics.LoginLimiterClients)
		}
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Len returns the number of tracked clients.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweep must be called with l.mu held.
func (l *ClientLimiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idle {
			delete(l.clients, key)
			if l.metrics != nil {
				l.metrics.DecGauge(metrics.LoginLimiterClients)
			}
		}
	}
}

// ClientKey identifies the caller by the host part of the remote address.
// Forwarding headers are ignored since they are set by the client.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware rejects requests with 429 once the caller's bucket is
// empty. Rejections are counted on m when it is set.
func RateLimitMiddleware(limiter *ClientLimiter, m interfaces.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(ClientKey(r)) {
				if m != nil {
					m.IncCounter(metrics.LoginRateLimitedTotal)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				resp := dto.RateLimitResponse{Message: MsgTooManyRequests}
				_ = json.NewEncoder(w).Encode(resp)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
