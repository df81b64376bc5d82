package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/bloguser/config"
	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/haguru/bloguser/internal/routes"
	mongoSessionRepo "github.com/haguru/bloguser/internal/sessionrepo/mongo"
	postgresSessionRepo "github.com/haguru/bloguser/internal/sessionrepo/postgres"
	redisSessionRepo "github.com/haguru/bloguser/internal/sessionrepo/redis"
	mongoUserRepo "github.com/haguru/bloguser/internal/userrepo/mongo"
	postgresUserRepo "github.com/haguru/bloguser/internal/userrepo/postgres"
	"github.com/haguru/bloguser/pkg/databases/mongo"
	"github.com/haguru/bloguser/pkg/databases/postgres"
	"github.com/haguru/bloguser/pkg/databases/redis"

	goredis "github.com/redis/go-redis/v9"
)

const (
	HealthCheckDatabase = "database"
	HealthCheckRedis    = "redis"
)

// Stores holds the open store clients and the repositories built on them.
type Stores struct {
	DB       interfaces.DBClient
	Redis    *goredis.Client
	Users    interfaces.UserRepository
	Sessions interfaces.SessionRepository
}

// OpenStores connects to the configured database, applies its schema and,
// when sessions live in Redis, connects to Redis too. Anything opened before
// a failure is closed again.
func OpenStores(ctx context.Context, cfg *config.ServiceConfig, logger interfaces.Logger) (*Stores, error) {
	stores := &Stores{}
	timeout := cfg.Database.QueryTimeout

	switch cfg.Database.Type {
	case config.DatabaseTypePostgres:
		pg := cfg.Database.Postgres
		client := postgres.NewPostgresDatabaseClient(pg.Driver, pg.Options.MaxOpenConns, pg.Options.MaxIdleConns, pg.Options.ConnMaxLifetime)
		if err := client.Connect(ctx, pg.DSN); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrConnectingDatabase, err)
		}
		stores.DB = client
		stores.Users = postgresUserRepo.NewPostgresUserRepository(client.DB(), timeout)
		stores.Sessions = postgresSessionRepo.NewPostgresSessionRepository(client.DB(), timeout)

	case config.DatabaseTypeMongo:
		client := mongo.NewMongoDB(&cfg.Database.MongoDB)
		if err := client.Connect(ctx, cfg.Database.MongoDB.DSN); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrConnectingDatabase, err)
		}
		stores.DB = client

		users, err := mongoUserRepo.NewMongoUserRepository(client.Database(), timeout)
		if err != nil {
			return nil, errors.Join(err, stores.Close(ctx))
		}
		sessions, err := mongoSessionRepo.NewMongoSessionRepository(client.Database(), timeout)
		if err != nil {
			return nil, errors.Join(err, stores.Close(ctx))
		}
		stores.Users = users
		stores.Sessions = sessions

	default:
		return nil, fmt.Errorf("%s: %s", ErrUnsupportedDatabase, cfg.Database.Type)
	}

	logger.Info(MsgDatabaseConnected, "type", cfg.Database.Type)

	if err := stores.DB.EnsureSchema(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("%s: %w", ErrEnsuringSchema, err), stores.Close(ctx))
	}

	if cfg.Session.Store == config.SessionStoreRedis {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, errors.Join(err, stores.Close(ctx))
		}
		sessions, err := redisSessionRepo.NewRedisSessionRepository(client, timeout)
		if err != nil {
			_ = client.Close()
			return nil, errors.Join(err, stores.Close(ctx))
		}
		stores.Redis = client
		stores.Sessions = sessions
		logger.Info(MsgRedisConnected, "addr", cfg.Redis.Addr())
	}

	return stores, nil
}

// HealthChecks returns a probe for every open store.
func (s *Stores) HealthChecks() map[string]routes.HealthCheck {
	checks := map[string]routes.HealthCheck{}
	if s.DB != nil {
		checks[HealthCheckDatabase] = s.DB.Ping
	}
	if s.Redis != nil {
		client := s.Redis
		checks[HealthCheckRedis] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return checks
}

// Close releases every open client.
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ErrClosingRedis, err))
		}
		s.Redis = nil
	}
	if s.DB != nil {
		if err := s.DB.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ErrClosingDatabase, err))
		}
		s.DB = nil
	}
	return errors.Join(errs...)
}
