package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/haguru/bloguser/internal/metrics"
	"github.com/haguru/bloguser/internal/models/dto"
	pkgmetrics "github.com/haguru/bloguser/pkg/metrics"
)

func TestRateLimitMiddleware(t *testing.T) {
	m := pkgmetrics.NewMetrics("bloguser")
	metrics.Register(m)

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	// burst of two, no refill during the test
	handler := RateLimitMiddleware(NewClientLimiter(rate.Limit(0), 2, time.Minute, m), m)(next)

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
		statuses = append(statuses, rr.Code)

		if rr.Code == http.StatusTooManyRequests {
			var body dto.RateLimitResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, MsgTooManyRequests, body.Message)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, "1", rr.Header().Get("Retry-After"))
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, statuses)
	assert.Equal(t, 2, calls)

	count, err := testutil.GatherAndCount(m.GetRegistry(), "bloguser_"+metrics.LoginRateLimitedTotal)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	families, err := m.GetRegistry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "bloguser_"+metrics.LoginRateLimitedTotal {
			assert.Equal(t, float64(2), f.GetMetric()[0].GetCounter().GetValue())
		}
	}
}

func TestRateLimitMiddleware_NilMetrics(t *testing.T) {
	handler := RateLimitMiddleware(NewClientLimiter(rate.Limit(0), 0, time.Minute, nil), nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("request should have been limited")
		}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func gaugeValue(t *testing.T, m interfaces.Metrics, name string) float64 {
	t.Helper()
	families, err := m.GetRegistry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "bloguser_"+name {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return 0
}

func TestRateLimitMiddleware_PerClient(t *testing.T) {
	handler := RateLimitMiddleware(NewClientLimiter(rate.Limit(0), 1, time.Minute, nil), nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	login := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, login("198.51.100.7:4000"))
	assert.Equal(t, http.StatusTooManyRequests, login("198.51.100.7:4001"))
	// another address keeps its own budget
	assert.Equal(t, http.StatusOK, login("203.0.113.9:4000"))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.9:4000"))
}

func TestClientLimiter_EvictsIdleClients(t *testing.T) {
	m := pkgmetrics.NewMetrics("bloguser")
	metrics.Register(m)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewClientLimiter(rate.Limit(0), 1, time.Minute, m)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
	assert.False(t, l.Allow("a"))
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, float64(2), gaugeValue(t, m, metrics.LoginLimiterClients))

	now = now.Add(30 * time.Second)
	assert.False(t, l.Allow("b"))

	now = now.Add(45 * time.Second)
	// a has been idle past the timeout, b has not
	assert.True(t, l.Allow("c"))
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, float64(2), gaugeValue(t, m, metrics.LoginLimiterClients))

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("a"))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, float64(1), gaugeValue(t, m, metrics.LoginLimiterClients))
}

func TestNewClientLimiter_IdleCoversRefill(t *testing.T) {
	l := NewClientLimiter(rate.Limit(0.5), 10, time.Second, nil)
	assert.Equal(t, 20*time.Second, l.idle)

	l = NewClientLimiter(rate.Limit(5), 10, time.Minute, nil)
	assert.Equal(t, time.Minute, l.idle)
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "ipv4", remoteAddr: "192.0.2.10:5555", want: "192.0.2.10"},
		{name: "ipv6", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "no port", remoteAddr: "192.0.2.10", want: "192.0.2.10"},
		{name: "forwarded header ignored", remoteAddr: "192.0.2.10:5555", forwarded: "10.0.0.1", want: "192.0.2.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientKey(req))
		})
	}
}
