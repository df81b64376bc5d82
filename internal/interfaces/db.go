package interfaces

import "context"

// DBClient is the lifecycle surface shared by every store client. Data access
// goes through the typed repositories; this only covers connecting, schema
// setup and health.
type DBClient interface {
	// Connect opens the pool for the given DSN (Data Source Name) and pings it.
	Connect(ctx context.Context, dsn string) error

	// Disconnect releases the pool.
	Disconnect(ctx context.Context) error

	// EnsureSchema creates or migrates tables, collections and indices.
	EnsureSchema(ctx context.Context) error

	// Ping checks the health of the connection.
	Ping(ctx context.Context) error
}
