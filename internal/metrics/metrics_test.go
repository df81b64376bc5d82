package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgmetrics "github.com/haguru/bloguser/pkg/metrics"
)

func TestRegister(t *testing.T) {
	m := pkgmetrics.NewMetrics("bloguser")
	Register(m)

	m.IncCounter(SignupRequestsTotal)
	m.IncCounterVec(LoginFailuresTotal, "invalid_password")
	m.ObserveHistogram(LoginDurationSeconds, 0.2)
	m.IncCounter(SessionsIssuedTotal)
	m.IncGauge(LoginLimiterClients)

	families, err := m.GetRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}

	for _, want := range []string{
		"bloguser_signup_requests_total",
		"bloguser_login_failures_total",
		"bloguser_login_duration_seconds",
		"bloguser_sessions_issued_total",
		"bloguser_login_limiter_clients",
	} {
		assert.True(t, names[want], "missing %s", want)
	}

	n, err := testutil.GatherAndCount(m.GetRegistry(), "bloguser_login_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegister_Twice(t *testing.T) {
	m := pkgmetrics.NewMetrics("bloguser")
	Register(m)
	assert.Panics(t, func() { Register(m) })
}
