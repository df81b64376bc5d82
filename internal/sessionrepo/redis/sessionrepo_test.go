package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/bloguser/internal/models"
)

var base = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func setupTestRepo(t *testing.T) (*RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo, err := NewRedisSessionRepository(client, time.Second)
	require.NoError(t, err)
	repo.now = func() time.Time { return base }
	return repo, mr
}

func newSession(token string, ttl time.Duration) models.Session {
	return models.Session{
		Token:     token,
		UserID:    7,
		CreatedAt: base,
		ExpiresAt: base.Add(ttl),
	}
}

func TestNewRedisSessionRepository_NilClient(t *testing.T) {
	_, err := NewRedisSessionRepository(nil, time.Second)
	assert.EqualError(t, err, ErrNilClient)
}

func TestInsertAndGetSession(t *testing.T) {
	repo, mr := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertSession(ctx, newSession("abc", time.Hour)))

	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))

	got, err := repo.GetSession(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Token)
	assert.Equal(t, int64(7), got.UserID)
	assert.True(t, got.CreatedAt.Equal(base))
	assert.True(t, got.ExpiresAt.Equal(base.Add(time.Hour)))
	assert.Nil(t, got.EndedAt)
}

func TestInsertSession_Duplicate(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertSession(ctx, newSession("abc", time.Hour)))
	err := repo.InsertSession(ctx, newSession("abc", time.Hour))
	assert.ErrorIs(t, err, models.ErrDuplicateRecord)
}

func TestGetSession_Missing(t *testing.T) {
	repo, _ := setupTestRepo(t)

	_, err := repo.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
}

func TestGetSession_ExpiresWithTTL(t *testing.T) {
	repo, mr := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertSession(ctx, newSession("abc", time.Minute)))
	mr.FastForward(time.Minute)

	_, err := repo.GetSession(ctx, "abc")
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
}

func TestGetSession_Corrupt(t *testing.T) {
	repo, mr := setupTestRepo(t)
	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := repo.GetSession(context.Background(), "bad")
	assert.ErrorContains(t, err, ErrDecodingSession)
}

func TestEndSession(t *testing.T) {
	repo, mr := setupTestRepo(t)
	ctx := context.Background()
	endedAt := base.Add(10 * time.Minute)

	require.NoError(t, repo.InsertSession(ctx, newSession("abc", time.Hour)))

	n, err := repo.EndSession(ctx, "abc", endedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))

	got, err := repo.GetSession(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got.EndedAt)
	assert.True(t, got.EndedAt.Equal(endedAt))

	n, err = repo.EndSession(ctx, "abc", endedAt.Add(time.Minute))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.EndSession(ctx, "missing", endedAt)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEndSession_Concurrent(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.InsertSession(ctx, newSession("abc", time.Hour)))

	var wg sync.WaitGroup
	var total atomic.Int64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := repo.EndSession(ctx, "abc", base.Add(time.Minute))
			assert.NoError(t, err)
			total.Add(n)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), total.Load())
}

func TestDeleteExpiredSessions(t *testing.T) {
	repo, mr := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertSession(ctx, newSession("short", time.Minute)))
	require.NoError(t, repo.InsertSession(ctx, newSession("long", time.Hour)))

	n, err := repo.DeleteExpiredSessions(ctx, base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, mr.Exists("session:short"))
	assert.True(t, mr.Exists("session:long"))

	n, err = repo.DeleteExpiredSessions(ctx, base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Zero(t, n)
}
