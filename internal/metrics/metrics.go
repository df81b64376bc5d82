// Package metrics names the service's Prometheus metrics and registers them.
package metrics

import "github.com/haguru/bloguser/internal/interfaces"

var (
	SignupDurationSecondsBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
	LoginDurationSecondsBuckets  = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
)

const (
	SignupRequestsTotal       = "signup_requests_total"
	SignupRequestsTotalHelp   = "Total number of signup requests received"
	SignupSuccessTotal        = "signup_success_total"
	SignupSuccessTotalHelp    = "Total number of successful signup requests"
	SignupErrorsTotal         = "signup_errors_total"
	SignupErrorsTotalHelp     = "Total number of errors during signup requests"
	SignupDurationSeconds     = "signup_duration_seconds"
	SignupDurationSecondsHelp = "Duration of signup requests in seconds"

	LoginRequestsTotal        = "login_requests_total"
	LoginRequestsTotalHelp    = "Total number of login requests received"
	LoginSuccessTotal         = "login_success_total"
	LoginSuccessTotalHelp     = "Total number of successful login requests"
	LoginFailuresTotal        = "login_failures_total"
	LoginFailuresTotalHelp    = "Total number of failed login requests by reason"
	LoginDurationSeconds      = "login_duration_seconds"
	LoginDurationSecondsHelp  = "Duration of login requests in seconds"
	LoginRateLimitedTotal     = "login_rate_limited_total"
	LoginRateLimitedTotalHelp = "Total number of login requests that were rate limited"
	LoginLimiterClients       = "login_limiter_clients"
	LoginLimiterClientsHelp   = "Client addresses currently tracked by the login rate limiter"

	LogoutTotal     = "logout_total"
	LogoutTotalHelp = "Total number of sessions ended by logout"

	SessionsIssuedTotal     = "sessions_issued_total"
	SessionsIssuedTotalHelp = "Total number of sessions issued by login"

	SessionsPurgedTotal     = "sessions_purged_total"
	SessionsPurgedTotalHelp = "Total number of expired sessions removed by the sweeper"

	// label for LoginFailuresTotal
	LabelReason = "reason"
)

// Register creates every service metric on m.
func Register(m interfaces.Metrics) {
	m.RegisterCounter(SignupRequestsTotal, SignupRequestsTotalHelp)
	m.RegisterCounter(SignupSuccessTotal, SignupSuccessTotalHelp)
	m.RegisterCounter(SignupErrorsTotal, SignupErrorsTotalHelp)
	m.RegisterHistogram(SignupDurationSeconds, SignupDurationSecondsHelp, SignupDurationSecondsBuckets)

	m.RegisterCounter(LoginRequestsTotal, LoginRequestsTotalHelp)
	m.RegisterCounter(LoginSuccessTotal, LoginSuccessTotalHelp)
	m.RegisterCounterVec(LoginFailuresTotal, LoginFailuresTotalHelp, []string{LabelReason})
	m.RegisterHistogram(LoginDurationSeconds, LoginDurationSecondsHelp, LoginDurationSecondsBuckets)
	m.RegisterCounter(LoginRateLimitedTotal, LoginRateLimitedTotalHelp)
	m.RegisterGauge(LoginLimiterClients, LoginLimiterClientsHelp)

	m.RegisterCounter(LogoutTotal, LogoutTotalHelp)
	m.RegisterCounter(SessionsIssuedTotal, SessionsIssuedTotalHelp)
	m.RegisterCounter(SessionsPurgedTotal, SessionsPurgedTotalHelp)
}
