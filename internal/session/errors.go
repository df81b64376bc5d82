package session

import "errors"

// Session error codes.
const (
	CodeSessionNotFound    = "session_not_found"
	CodeSessionEnded       = "session_ended"
	CodeSessionExpired     = "session_expired"
	CodeSessionUnavailable = "session_unavailable"
)

// SessionError classifies why a token does not identify an active session.
type SessionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	ErrSessionNotFound    = &SessionError{Code: CodeSessionNotFound, Message: "session not found"}
	ErrSessionEnded       = &SessionError{Code: CodeSessionEnded, Message: "session has ended"}
	ErrSessionExpired     = &SessionError{Code: CodeSessionExpired, Message: "session has expired"}
	ErrSessionUnavailable = &SessionError{Code: CodeSessionUnavailable, Message: "session store unavailable"}
)

func (e *SessionError) Error() string {
	return e.Message
}

func (e *SessionError) Is(target error) bool {
	var t *SessionError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}
