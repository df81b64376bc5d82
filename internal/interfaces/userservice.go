package interfaces

import (
	"context"

	"github.com/haguru/bloguser/internal/models"
	"github.com/haguru/bloguser/internal/models/dto"
)

type UserService interface {
	RegisterUser(ctx context.Context, req dto.UserSignupRequestDTO) (models.AuthenticatedUser, error)
	Login(ctx context.Context, req dto.LoginRequestDTO) (models.AuthenticatedUser, models.Session, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (models.UserResponse, error)
	GetUser(ctx context.Context, id int64) (models.UserResponse, error)
	ListUsers(ctx context.Context) ([]models.UserResponse, error)
	DeleteUser(ctx context.Context, id int64) error
	DeleteUserByUsername(ctx context.Context, username string) error
}
