package interfaces

import (
	"context"

	"github.com/haguru/bloguser/internal/models"
)

// UserRepository is the credential store. Lookups return
// models.ErrRecordNotFound when nothing matches and inserts return
// models.ErrDuplicateRecord when the username is taken.
type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.UserRecord, error)
	GetUserByID(ctx context.Context, id int64) (*models.UserRecord, error)
	InsertUser(ctx context.Context, username, passwordHash string) (int64, error)
	DeleteUserByID(ctx context.Context, id int64) (int64, error)
	DeleteUserByUsername(ctx context.Context, username string) (int64, error)
	ListUsers(ctx context.Context) ([]models.UserRecord, error)
}
