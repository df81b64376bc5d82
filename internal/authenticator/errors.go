package authenticator

import "errors"

// Auth error codes.
const (
	CodeUserNotFound      = "user_not_found"
	CodeInvalidPassword   = "invalid_password"
	CodeUserAlreadyExists = "user_already_exists"
)

// AuthError classifies a failed credential check. It never carries the
// submitted password, the stored hash or the underlying store error.
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	ErrUserNotFound      = &AuthError{Code: CodeUserNotFound, Message: "user not found"}
	ErrInvalidPassword   = &AuthError{Code: CodeInvalidPassword, Message: "invalid password"}
	ErrUserAlreadyExists = &AuthError{Code: CodeUserAlreadyExists, Message: "user already exists"}
)

func (e *AuthError) Error() string {
	return e.Message
}

// Is matches any AuthError with the same code.
func (e *AuthError) Is(target error) bool {
	var t *AuthError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}
