package interfaces

import (
	"context"
	"time"

	"github.com/haguru/bloguser/internal/models"
)

// SessionRepository persists sessions. GetSession returns
// models.ErrRecordNotFound for unknown tokens. EndSession only touches
// sessions that have not been ended yet and reports how many it changed.
type SessionRepository interface {
	InsertSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	EndSession(ctx context.Context, token string, endedAt time.Time) (int64, error)
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}
