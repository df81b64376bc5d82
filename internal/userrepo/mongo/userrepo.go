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
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ErrNilDatabase      = "database cannot be nil"
	ErrQueryingUser     = "failed to query user from MongoDB"
	ErrAllocatingID     = "failed to allocate user id"
	ErrInsertingUser    = "failed to add user to MongoDB"
	ErrDeletingUser     = "failed to delete user from MongoDB"
	ErrDeletingSessions = "failed to delete sessions of deleted user"
	ErrListingUsers     = "failed to list users from MongoDB"
)

// MongoUserRepository implements UserRepository on a MongoDB database.
// User ids are int64 values handed out by the counters collection.
type MongoUserRepository struct {
	users    *mongosdk.Collection
	counters *mongosdk.Collection
	sessions *mongosdk.Collection
	timeout  time.Duration
	now      func() time.Time
}

// NewMongoUserRepository creates a new MongoDB repository instance.
func NewMongoUserRepository(db *mongosdk.Database, timeout time.Duration) (*MongoUserRepository, error) {
	if db == nil {
		return nil, errors.New(ErrNilDatabase)
	}
	return &MongoUserRepository{
		users:    db.Collection(constants.UsersCollection),
		counters: db.Collection(constants.CountersCollection),
		sessions: db.Collection(constants.SessionsCollection),
		timeout:  timeout,
		now:      time.Now,
	}, nil
}

func (r *MongoUserRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

// GetUserByUsername returns models.ErrRecordNotFound when no document matches.
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.UserRecord, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// GetUserByID returns models.ErrRecordNotFound when no document matches.
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id int64) (*models.UserRecord, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.UserRecord, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var user models.UserRecord
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongosdk.ErrNoDocuments) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrQueryingUser, err)
	}
	return &user, nil
}

// InsertUser allocates the next id and stores the user. The unique username
// index turns a taken name into models.ErrDuplicateRecord.
func (r *MongoUserRepository) InsertUser(ctx context.Context, username, passwordHash string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return 0, err
	}

	user := models.UserRecord{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    r.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongosdk.IsDuplicateKeyError(err) {
			return 0, models.ErrDuplicateRecord
		}
		return 0, fmt.Errorf("%s: %w", ErrInsertingUser, err)
	}
	return id, nil
}

func (r *MongoUserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": constants.UsersCounter},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrAllocatingID, err)
	}
	return counter.Seq, nil
}

// DeleteUserByID removes the user and their sessions.
func (r *MongoUserRepository) DeleteUserByID(ctx context.Context, id int64) (int64, error) {
	return r.deleteOne(ctx, bson.M{"_id": id})
}

// DeleteUserByUsername removes the user and their sessions.
func (r *MongoUserRepository) DeleteUserByUsername(ctx context.Context, username string) (int64, error) {
	return r.deleteOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) deleteOne(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var deleted models.UserRecord
	if err := r.users.FindOneAndDelete(ctx, filter).Decode(&deleted); err != nil {
		if errors.Is(err, mongosdk.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", ErrDeletingUser, err)
	}

	if _, err := r.sessions.DeleteMany(ctx, bson.M{"user_id": deleted.ID}); err != nil {
		return 1, fmt.Errorf("%s: %w", ErrDeletingSessions, err)
	}
	return 1, nil
}

// ListUsers returns every user ordered by id.
func (r *MongoUserRepository) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListingUsers, err)
	}

	users := []models.UserRecord{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListingUsers, err)
	}
	return users, nil
}
