package userservice

import "errors"

// Service error codes.
const (
	CodeSignupFailed     = "signup_failed"
	CodeLoginFailed      = "login_failed"
	CodeUserNotFound     = "user_not_found"
	CodeStoreUnavailable = "store_unavailable"
)

// ServiceError is returned when an operation fails for a reason the caller
// cannot fix by changing its input. It never carries the underlying cause.
type ServiceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	ErrSignupFailed     = &ServiceError{Code: CodeSignupFailed, Message: "signup failed"}
	ErrLoginFailed      = &ServiceError{Code: CodeLoginFailed, Message: "login failed"}
	ErrUserNotFound     = &ServiceError{Code: CodeUserNotFound, Message: "user not found"}
	ErrStoreUnavailable = &ServiceError{Code: CodeStoreUnavailable, Message: "user store unavailable"}
)

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Is(target error) bool {
	var t *ServiceError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}
