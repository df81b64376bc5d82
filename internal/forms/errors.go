package forms

import (
	"errors"
	"fmt"
)

// Validation error codes.
const (
	CodeFieldTooShort     = "field_too_short"
	CodeFieldTooLong      = "field_too_long"
	CodeEmptyField        = "empty_field"
	CodeMismatchPasswords = "mismatch_passwords"
)

// ValidationError describes the first rule a form failed. It only ever holds
// field names and limits, never submitted values, so it is safe to render.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Sentinels for errors.Is. They match any field.
var (
	ErrFieldTooShort     = &ValidationError{Code: CodeFieldTooShort}
	ErrFieldTooLong      = &ValidationError{Code: CodeFieldTooLong}
	ErrEmptyField        = &ValidationError{Code: CodeEmptyField}
	ErrMismatchPasswords = &ValidationError{Code: CodeMismatchPasswords, Message: "Passwords do not match."}
)

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Field)
	}
	return e.Code
}

// Is matches on code, and on field when the target names one.
func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Field == "" || t.Field == e.Field
}

// FieldTooShort reports a field below its minimum length.
func FieldTooShort(field string, min int) *ValidationError {
	return &ValidationError{
		Code:    CodeFieldTooShort,
		Field:   field,
		Message: fmt.Sprintf("Field '%s' must be at least %d characters long.", field, min),
	}
}

// FieldTooLong reports a field above its maximum length.
func FieldTooLong(field string, max int) *ValidationError {
	return &ValidationError{
		Code:    CodeFieldTooLong,
		Field:   field,
		Message: fmt.Sprintf("Field '%s' must be at most %d characters long.", field, max),
	}
}

// EmptyField reports a field missing from the request.
func EmptyField(field string) *ValidationError {
	return &ValidationError{
		Code:    CodeEmptyField,
		Field:   field,
		Message: fmt.Sprintf("Field '%s' cannot be empty.", field),
	}
}
