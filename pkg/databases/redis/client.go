// Package redis provides Redis client utilities.
package redis

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/haguru/bloguser/config"

	"github.com/redis/go-redis/v9"
)

const ErrConnectingRedis = "failed to connect to Redis"

// NewClient builds a client for the configured server. TLS is enabled when
// the config asks for it.
func NewClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	if cfg.TLS {
		options.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	return redis.NewClient(options)
}

// Connect builds a client and pings it. The client is closed when the ping
// fails.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := NewClient(cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", ErrConnectingRedis, err)
	}
	return client, nil
}
