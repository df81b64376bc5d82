package routes

import (
	"errors"
	"net/http"

	"github.com/haguru/bloguser/internal/authenticator"
	"github.com/haguru/bloguser/internal/forms"
	"github.com/haguru/bloguser/internal/models/dto"
	"github.com/haguru/bloguser/internal/session"
	"github.com/haguru/bloguser/internal/userservice"
)

var errInternal = &dto.APIError{Code: CodeInternalError, Message: MsgInternalError}

// statusFor maps a service error to its HTTP status and the value rendered
// under "error". Unknown errors are reported as a generic internal error so
// that nothing from the store leaks.
func statusFor(err error) (int, any) {
	var validationErr *forms.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr
	}

	var authErr *authenticator.AuthError
	if errors.As(err, &authErr) {
		if errors.Is(authErr, authenticator.ErrUserAlreadyExists) {
			return http.StatusConflict, authErr
		}
		return http.StatusUnauthorized, authErr
	}

	var sessionErr *session.SessionError
	if errors.As(err, &sessionErr) {
		if errors.Is(sessionErr, session.ErrSessionUnavailable) {
			return http.StatusServiceUnavailable, sessionErr
		}
		return http.StatusUnauthorized, sessionErr
	}

	var serviceErr *userservice.ServiceError
	if errors.As(err, &serviceErr) {
		switch {
		case errors.Is(serviceErr, userservice.ErrUserNotFound):
			return http.StatusNotFound, serviceErr
		case errors.Is(serviceErr, userservice.ErrStoreUnavailable):
			return http.StatusServiceUnavailable, serviceErr
		default:
			return http.StatusInternalServerError, serviceErr
		}
	}

	return http.StatusInternalServerError, errInternal
}

// failureReason labels a failed login for the failures counter.
func failureReason(err error) string {
	var validationErr *forms.ValidationError
	if errors.As(err, &validationErr) {
		return ReasonValidation
	}
	var authErr *authenticator.AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return ReasonInternal
}
