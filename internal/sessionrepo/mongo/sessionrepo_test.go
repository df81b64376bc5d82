package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/haguru/bloguser/internal/models"
)

func newRepo(mt *mtest.T) *MongoSessionRepository {
	mt.Helper()
	repo, err := NewMongoSessionRepository(mt.DB, time.Second)
	require.NoError(mt, err)
	return repo
}

func TestNewMongoSessionRepository_NilDatabase(t *testing.T) {
	_, err := NewMongoSessionRepository(nil, time.Second)
	assert.EqualError(t, err, ErrNilDatabase)
}

func TestInsertSession(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	s := models.Session{Token: "tok", UserID: 1, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, newRepo(mt).InsertSession(context.Background(), s))
	})

	mt.Run("duplicate token", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}))
		assert.ErrorIs(mt, newRepo(mt).InsertSession(context.Background(), s), models.ErrDuplicateRecord)
	})
}

func TestGetSession(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	ended := now.Add(5 * time.Minute)

	mt.Run("ended session", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bloguser.sessions", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "tok"},
			{Key: "user_id", Value: int64(1)},
			{Key: "created_at", Value: now},
			{Key: "expires_at", Value: now.Add(time.Hour)},
			{Key: "ended_at", Value: ended},
		}))

		got, err := newRepo(mt).GetSession(context.Background(), "tok")
		require.NoError(mt, err)
		assert.Equal(mt, "tok", got.Token)
		assert.Equal(mt, int64(1), got.UserID)
		assert.Equal(mt, now.Add(time.Hour), got.ExpiresAt)
		require.NotNil(mt, got.EndedAt)
		assert.Equal(mt, ended, *got.EndedAt)
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bloguser.sessions", mtest.FirstBatch))

		_, err := newRepo(mt).GetSession(context.Background(), "nope")
		assert.ErrorIs(mt, err, models.ErrRecordNotFound)
	})
}

func TestEndSession(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	mt.Run("active", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		n, err := newRepo(mt).EndSession(context.Background(), "tok", at)
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), n)
	})

	mt.Run("already ended", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		n, err := newRepo(mt).EndSession(context.Background(), "tok", at)
		require.NoError(mt, err)
		assert.Zero(mt, n)
	})
}

func TestDeleteExpiredSessions(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 4}))

		n, err := newRepo(mt).DeleteExpiredSessions(context.Background(), time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, int64(4), n)
	})

	mt.Run("error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11600, Name: "InterruptedAtShutdown", Message: "interrupted"}))

		_, err := newRepo(mt).DeleteExpiredSessions(context.Background(), time.Now())
		assert.ErrorContains(mt, err, ErrPurgingSessions)
	})
}
