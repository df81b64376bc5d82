// Package redis keeps sessions in Redis. Each session is a JSON value under
// session:<token> that expires with the session.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/haguru/bloguser/internal/models"

	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "session:"
	scanCount = 100

	ErrNilClient        = "redis client cannot be nil"
	ErrInsertingSession = "failed to add session to Redis"
	ErrQueryingSession  = "failed to query session from Redis"
	ErrEndingSession    = "failed to end session in Redis"
	ErrPurgingSessions  = "failed to delete expired sessions from Redis"
	ErrDecodingSession  = "failed to decode session from Redis"
)

// RedisSessionRepository implements SessionRepository.
type RedisSessionRepository struct {
	client  *goredis.Client
	timeout time.Duration
	now     func() time.Time
}

func NewRedisSessionRepository(client *goredis.Client, timeout time.Duration) (*RedisSessionRepository, error) {
	if client == nil {
		return nil, errors.New(ErrNilClient)
	}
	return &RedisSessionRepository{
		client:  client,
		timeout: timeout,
		now:     time.Now,
	}, nil
}

func sessionKey(token string) string {
	return keyPrefix + token
}

func (r *RedisSessionRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

func decode(token string, raw []byte) (*models.Session, error) {
	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDecodingSession, err)
	}
	s.Token = token
	return &s, nil
}

// InsertSession stores the session with a TTL ending at its expiry. An
// existing key is never overwritten.
func (r *RedisSessionRepository) InsertSession(ctx context.Context, s models.Session) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInsertingSession, err)
	}

	ttl := s.ExpiresAt.Sub(r.now())
	if ttl < time.Millisecond {
		ttl = time.Millisecond
	}

	ok, err := r.client.SetNX(ctx, sessionKey(s.Token), payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInsertingSession, err)
	}
	if !ok {
		return models.ErrDuplicateRecord
	}
	return nil
}

func (r *RedisSessionRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	raw, err := r.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrQueryingSession, err)
	}
	return decode(token, raw)
}

// EndSession marks the session ended inside a WATCH transaction so that only
// one of several concurrent callers reports a change. The key keeps its TTL.
func (r *RedisSessionRepository) EndSession(ctx context.Context, token string, endedAt time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	key := sessionKey(token)
	var changed int64

	err := r.client.Watch(ctx, func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return nil
			}
			return err
		}

		s, err := decode(token, raw)
		if err != nil {
			return err
		}
		if s.Ended() {
			return nil
		}
		s.EndedAt = &endedAt

		payload, err := json.Marshal(s)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, payload, goredis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}
		changed = 1
		return nil
	}, key)

	if errors.Is(err, goredis.TxFailedErr) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrEndingSession, err)
	}
	return changed, nil
}

// DeleteExpiredSessions removes sessions whose expiry is at or before the
// given instant. Redis drops expired keys on its own, so this only catches
// keys that outlived their session because of clock skew.
func (r *RedisSessionRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var deleted int64
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return deleted, fmt.Errorf("%s: %w", ErrPurgingSessions, err)
		}

		s, err := decode(key[len(keyPrefix):], raw)
		if err != nil {
			return deleted, fmt.Errorf("%s: %w", ErrPurgingSessions, err)
		}
		if before.Before(s.ExpiresAt) {
			continue
		}

		n, err := r.client.Del(ctx, key).Result()
		if err != nil {
			return deleted, fmt.Errorf("%s: %w", ErrPurgingSessions, err)
		}
		deleted += n
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("%s: %w", ErrPurgingSessions, err)
	}
	return deleted, nil
}
