package interfaces

import (
	"github.com/haguru/bloguser/internal/models"
	"github.com/haguru/bloguser/internal/models/dto"
)

// Validator performs structural checks on raw input before any store access.
type Validator interface {
	ValidateSignup(req dto.UserSignupRequestDTO) (models.Signup, error)
	ValidateLogin(req dto.LoginRequestDTO) (models.Credential, error)
}
