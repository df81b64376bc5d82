package postgres

import "time"

const (
	// DriverPQ selects github.com/lib/pq.
	DriverPQ = "postgres"
	// DriverPGX selects the database/sql adapter of github.com/jackc/pgx/v5.
	DriverPGX = "pgx"

	// DefaultMaxOpenConns is the default maximum number of open connections to the database.
	DefaultMaxOpenConns = 10
	// DefaultMaxIdleConns is the default maximum number of idle connections to the database.
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused.
	DefaultConnMaxLifetime = 30 * time.Second

	// SQLSTATE codes
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"

	ErrOpeningDatabase   = "failed to open PostgreSQL database"
	ErrNotConnected      = "PostgresDatabaseClient is not connected to a database"
	ErrUnsupportedDriver = "unsupported PostgreSQL driver"
	ErrRunningMigrations = "failed to run PostgreSQL migrations"
)
