package routes

import "time"

const (
	// API route constants
	MetricsRouteAPI = "/metrics"
	LoginRouteAPI   = "/login"
	LogoutRouteAPI  = "/logout"
	SignupRouteAPI  = "/signup"
	MeRouteAPI      = "/me"
	UserRouteAPI    = "/users/{id}"
	HealthRouteAPI  = "/healthz"

	// path wildcard of UserRouteAPI
	UserIDPathValue = "id"

	// Content-Type constants
	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"

	// message constants
	MsgLoginSuccessful   = "Login successful"
	MsgLogoutSuccessful  = "Logout successful"
	MsgUserCreatedFormat = "User created successfully with ID: %d"
	MsgSignupFailed      = "Failed to register user"
	MsgLoginFailed       = "Login failed"
	MsgNotAuthenticated  = "Not authenticated"
	MsgUserLookupFailed  = "Failed to look up user"
	MsgInternalError     = "Internal server error"
	MsgHealthy           = "ok"
	MsgUnhealthy         = "unavailable"

	// request error codes
	CodeMethodNotAllowed   = "method_not_allowed"
	CodeInvalidContentType = "invalid_content_type"
	CodeInvalidRequestBody = "invalid_request_body"
	CodeInvalidUserID      = "invalid_user_id"
	CodeInternalError      = "internal_error"

	// login failure reasons for metrics
	ReasonValidation = "validation"
	ReasonInternal   = "internal"

	// Error messages
	ErrMethodNotAllowed       = "method not allowed"
	ErrInvalidContentType     = "content-Type must be application/json"
	ErrInvalidRequestBody     = "invalid request body"
	ErrInvalidUserID          = "user id must be a positive integer"
	ErrFailedToEncodeResponse = "failed to encode response"
	ErrFailedToSignCookie     = "failed to sign session cookie"
	ErrInvalidSessionCookie   = "invalid session cookie"
	ErrHealthCheckFailed      = "health check failed"

	maxRequestBodyBytes = 1 << 20
)

var HealthCheckTimeout = 2 * time.Second
