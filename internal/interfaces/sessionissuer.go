package interfaces

import (
	"context"

	"github.com/haguru/bloguser/internal/models"
)

type SessionIssuer interface {
	Issue(ctx context.Context, userID int64) (models.Session, error)
	Resolve(ctx context.Context, token string) (models.Session, error)
	End(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) (int64, error)
}
