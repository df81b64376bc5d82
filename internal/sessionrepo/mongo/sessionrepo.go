// Package mongo stores sessions in the MongoDB sessions collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haguru/bloguser/internal/models"
	"github.com/haguru/bloguser/internal/userrepo/constants"

	"go.mongodb.org/mongo-driver/bson"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
)

const (
	ErrNilDatabase      = "database cannot be nil"
	ErrInsertingSession = "failed to add session to MongoDB"
	ErrQueryingSession  = "failed to query session from MongoDB"
	ErrEndingSession    = "failed to end session in MongoDB"
	ErrPurgingSessions  = "failed to delete expired sessions from MongoDB"
)

// MongoSessionRepository implements SessionRepository. The token is the
// document _id.
type MongoSessionRepository struct {
	sessions *mongosdk.Collection
	timeout  time.Duration
}

func NewMongoSessionRepository(db *mongosdk.Database, timeout time.Duration) (*MongoSessionRepository, error) {
	if db == nil {
		return nil, errors.New(ErrNilDatabase)
	}
	return &MongoSessionRepository{
		sessions: db.Collection(constants.SessionsCollection),
		timeout:  timeout,
	}, nil
}

func (r *MongoSessionRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

func (r *MongoSessionRepository) InsertSession(ctx context.Context, s models.Session) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.sessions.InsertOne(ctx, s); err != nil {
		if mongosdk.IsDuplicateKeyError(err) {
			return models.ErrDuplicateRecord
		}
		return fmt.Errorf("%s: %w", ErrInsertingSession, err)
	}
	return nil
}

func (r *MongoSessionRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var s models.Session
	if err := r.sessions.FindOne(ctx, bson.M{"_id": token}).Decode(&s); err != nil {
		if errors.Is(err, mongosdk.ErrNoDocuments) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrQueryingSession, err)
	}
	return &s, nil
}

// EndSession sets ended_at on a session that has none yet.
func (r *MongoSessionRepository) EndSession(ctx context.Context, token string, endedAt time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.sessions.UpdateOne(ctx,
		bson.M{"_id": token, "ended_at": nil},
		bson.M{"$set": bson.M{"ended_at": endedAt}},
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrEndingSession, err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoSessionRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.sessions.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": before}})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrPurgingSessions, err)
	}
	return res.DeletedCount, nil
}
