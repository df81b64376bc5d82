package dto

// ErrorResponse is the body written for every failed request. Error holds a
// typed domain error or an APIError and never raw store errors.
type ErrorResponse struct {
	Error   any    `json:"error"`
	Message string `json:"message"`
}

// APIError describes request-level failures that happen before any domain
// code runs, such as a bad content type or an unparsable body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RateLimitResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
