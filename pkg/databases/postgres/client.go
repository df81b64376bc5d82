package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/lib/pq"                // registers the "postgres" driver
	"github.com/pressly/goose/v3"

	"github.com/haguru/bloguser/pkg/databases/postgres/migrations"
)

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresDatabaseClient implements the DBClient interface for PostgreSQL databases.
type PostgresDatabaseClient struct {
	db              *sql.DB
	Driver          string        // Driver is the database/sql driver name, DriverPQ or DriverPGX
	MaxOpenConns    int           // MaxOpenConns is the maximum number of open connections to the database
	MaxIdleConns    int           // MaxIdleConns is the maximum number of idle connections to the database
	ConnMaxLifetime time.Duration // ConnMaxLifetime is the maximum amount of time a connection may be reused
}

func NewPostgresDatabaseClient(driver string, maxOpenConns, maxIdleConns int, connMaxLifetime time.Duration) *PostgresDatabaseClient {
	if driver == "" {
		driver = DriverPQ
	}
	return &PostgresDatabaseClient{
		Driver:          driver,
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
	}
}

// Connect opens the pool and pings the server.
func (p *PostgresDatabaseClient) Connect(ctx context.Context, dsn string) error {
	if p.Driver != DriverPQ && p.Driver != DriverPGX {
		return fmt.Errorf("%s: %q", ErrUnsupportedDriver, p.Driver)
	}

	db, err := sql.Open(p.Driver, dsn)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrOpeningDatabase, err)
	}

	db.SetMaxOpenConns(p.MaxOpenConns)
	db.SetMaxIdleConns(p.MaxIdleConns)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)
	p.db = db

	return p.Ping(ctx)
}

// DB returns the pool. It is nil until Connect succeeds.
func (p *PostgresDatabaseClient) DB() *sql.DB {
	return p.db
}

// Disconnect closes the PostgreSQL database connection.
func (p *PostgresDatabaseClient) Disconnect(ctx context.Context) error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Ping checks the health of the PostgreSQL connection.
func (p *PostgresDatabaseClient) Ping(ctx context.Context) error {
	if p.db == nil {
		return errors.New(ErrNotConnected)
	}
	return p.db.PingContext(ctx)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// EnsureSchema applies the embedded migrations.
func (p *PostgresDatabaseClient) EnsureSchema(ctx context.Context) error {
	if p.db == nil {
		return errors.New(ErrNotConnected)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: %w", ErrRunningMigrations, err)
	}
	if err := gooseUpContext(ctx, p.db, "."); err != nil {
		return fmt.Errorf("%s: %w", ErrRunningMigrations, err)
	}
	return nil
}

// SQLState extracts the SQLSTATE code from an error raised by either driver.
func SQLState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique constraint rejection.
func IsUniqueViolation(err error) bool {
	return SQLState(err) == UniqueViolation
}
