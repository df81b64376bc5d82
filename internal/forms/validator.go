// Package forms holds the structural checks applied to signup and login input
// before anything touches the store.
package forms

import (
	"fmt"

	structValidator "github.com/go-playground/validator/v10"

	"github.com/haguru/bloguser/internal/models"
	"github.com/haguru/bloguser/internal/models/dto"
)

const (
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldPasswordConfirm = "password_confirm"

	MinUsernameLength = 4
	MaxUsernameLength = 64
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

// Validator applies the form rules in a fixed order and stops at the first
// failure. It holds no state besides the compiled rule set, so results only
// depend on the input.
type Validator struct {
	validate *structValidator.Validate
}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{validate: structValidator.New()}
}

// ValidateSignup checks username, password and confirmation, in that order.
func (v *Validator) ValidateSignup(req dto.UserSignupRequestDTO) (models.Signup, error) {
	username, password, err := v.checkCredential(req.Username, req.Password)
	if err != nil {
		return models.Signup{}, err
	}

	if req.PasswordConfirm == nil {
		return models.Signup{}, EmptyField(FieldPasswordConfirm)
	}
	if *req.PasswordConfirm != password {
		return models.Signup{}, ErrMismatchPasswords
	}

	return models.Signup{Username: username, Password: password}, nil
}

// ValidateLogin checks username then password.
func (v *Validator) ValidateLogin(req dto.LoginRequestDTO) (models.Credential, error) {
	username, password, err := v.checkCredential(req.Username, req.Password)
	if err != nil {
		return models.Credential{}, err
	}
	return models.Credential{Username: username, Password: password}, nil
}

func (v *Validator) checkCredential(username, password *string) (string, string, error) {
	if username == nil {
		return "", "", EmptyField(FieldUsername)
	}
	if err := v.checkLength(FieldUsername, *username, MinUsernameLength, MaxUsernameLength); err != nil {
		return "", "", err
	}

	if password == nil {
		return "", "", EmptyField(FieldPassword)
	}
	if err := v.validate.Var(*password, fmt.Sprintf("min=%d", MinPasswordLength)); err != nil {
		return "", "", FieldTooShort(FieldPassword, MinPasswordLength)
	}
	// bcrypt counts bytes, not characters.
	if len(*password) > MaxPasswordBytes {
		return "", "", FieldTooLong(FieldPassword, MaxPasswordBytes)
	}

	return *username, *password, nil
}

// checkLength enforces a character-count window on value. An empty string is
// present but too short.
func (v *Validator) checkLength(field, value string, min, max int) error {
	if err := v.validate.Var(value, fmt.Sprintf("min=%d", min)); err != nil {
		return FieldTooShort(field, min)
	}
	if err := v.validate.Var(value, fmt.Sprintf("max=%d", max)); err != nil {
		return FieldTooLong(field, max)
	}
	return nil
}
