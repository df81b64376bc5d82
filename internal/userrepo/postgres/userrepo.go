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
	selectUserColumns = `SELECT id, username, password_hash, created_at FROM users`

	queryUserByUsername = selectUserColumns + ` WHERE username = $1`
	queryUserByID       = selectUserColumns + ` WHERE id = $1`
	queryListUsers      = selectUserColumns + ` ORDER BY id`

	queryInsertUser = `INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id`

	queryDeleteUserByID       = `DELETE FROM users WHERE id = $1`
	queryDeleteUserByUsername = `DELETE FROM users WHERE username = $1`

	ErrQueryingUser  = "failed to query user from PostgreSQL"
	ErrInsertingUser = "failed to add user to PostgreSQL"
	ErrDeletingUser  = "failed to delete user from PostgreSQL"
	ErrListingUsers  = "failed to list users from PostgreSQL"
)

// PostgresUserRepository implements UserRepository for PostgreSQL databases.
type PostgresUserRepository struct {
	db      postgres.DBTX
	timeout time.Duration
}

// NewPostgresUserRepository creates a new PostgreSQL repository instance.
// Every call runs under timeout when it is positive.
func NewPostgresUserRepository(db postgres.DBTX, timeout time.Duration) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, timeout: timeout}
}

func (r *PostgresUserRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

// GetUserByUsername returns models.ErrRecordNotFound when no row matches.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.UserRecord, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.queryUser(ctx, queryUserByUsername, username)
}

// GetUserByID returns models.ErrRecordNotFound when no row matches.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id int64) (*models.UserRecord, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.queryUser(ctx, queryUserByID, id)
}

func (r *PostgresUserRepository) queryUser(ctx context.Context, query string, arg any) (*models.UserRecord, error) {
	user := &models.UserRecord{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrQueryingUser, err)
	}
	return user, nil
}

// InsertUser stores a new user and returns the id assigned by the database.
// A taken username yields models.ErrDuplicateRecord.
func (r *PostgresUserRepository) InsertUser(ctx context.Context, username, passwordHash string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var id int64
	err := r.db.QueryRowContext(ctx, queryInsertUser, username, passwordHash).Scan(&id)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return 0, models.ErrDuplicateRecord
		}
		return 0, fmt.Errorf("%s: %w", ErrInsertingUser, err)
	}
	return id, nil
}

// DeleteUserByID removes the user and, through the foreign key, their sessions.
func (r *PostgresUserRepository) DeleteUserByID(ctx context.Context, id int64) (int64, error) {
	return r.exec(ctx, queryDeleteUserByID, id)
}

// DeleteUserByUsername removes the user with the given username.
func (r *PostgresUserRepository) DeleteUserByUsername(ctx context.Context, username string) (int64, error) {
	return r.exec(ctx, queryDeleteUserByUsername, username)
}

func (r *PostgresUserRepository) exec(ctx context.Context, query string, arg any) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrDeletingUser, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrDeletingUser, err)
	}
	return n, nil
}

// ListUsers returns every user ordered by id.
func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, queryListUsers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListingUsers, err)
	}
	defer func() { _ = rows.Close() }()

	users := []models.UserRecord{}
	for rows.Next() {
		var u models.UserRecord
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrListingUsers, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListingUsers, err)
	}
	return users, nil
}
