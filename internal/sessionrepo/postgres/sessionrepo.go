// Package postgres stores sessions in the PostgreSQL sessions table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/haguru/bloguser/internal/models"
	"github.com/haguru/bloguser/pkg/databases/postgres"
)

const (
	queryInsertSession = `INSERT INTO sessions (session_key, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)`

	querySessionByKey = `SELECT session_key, user_id, created_at, expires_at, ended_at
		FROM sessions WHERE session_key = $1`

	queryEndSession = `UPDATE sessions SET ended_at = $2
		WHERE session_key = $1 AND ended_at IS NULL`

	queryDeleteExpired = `DELETE FROM sessions WHERE expires_at <= $1`

	ErrInsertingSession = "failed to add session to PostgreSQL"
	ErrQueryingSession  = "failed to query session from PostgreSQL"
	ErrEndingSession    = "failed to end session in PostgreSQL"
	ErrPurgingSessions  = "failed to delete expired sessions from PostgreSQL"
)

// PostgresSessionRepository implements SessionRepository for PostgreSQL.
type PostgresSessionRepository struct {
	db      postgres.DBTX
	timeout time.Duration
}

func NewPostgresSessionRepository(db postgres.DBTX, timeout time.Duration) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db, timeout: timeout}
}

func (r *PostgresSessionRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

func (r *PostgresSessionRepository) InsertSession(ctx context.Context, s models.Session) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, queryInsertSession, s.Token, s.UserID, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return models.ErrDuplicateRecord
		}
		return fmt.Errorf("%s: %w", ErrInsertingSession, err)
	}
	return nil
}

func (r *PostgresSessionRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		s       models.Session
		endedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, querySessionByKey, token).
		Scan(&s.Token, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &endedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrQueryingSession, err)
	}
	if endedAt.Valid {
		s.EndedAt = &endedAt.Time
	}
	return &s, nil
}

// EndSession stamps ended_at on a session that has not been ended yet.
func (r *PostgresSessionRepository) EndSession(ctx context.Context, token string, endedAt time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, queryEndSession, token, endedAt)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrEndingSession, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrEndingSession, err)
	}
	return n, nil
}

func (r *PostgresSessionRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, queryDeleteExpired, before)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrPurgingSessions, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrPurgingSessions, err)
	}
	return n, nil
}
