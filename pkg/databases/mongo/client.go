package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/haguru/bloguser/config"
	"github.com/haguru/bloguser/internal/userrepo/constants"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	MAXPOOLSIZE = 20

	ErrEmptyDSN        = "MongoDBClient: DSN is empty"
	ErrInvalidDSN      = "MongoDBClient: Invalid DSN format, expected 'mongodb://' or 'mongodb+srv://'"
	ErrNotConnected    = "MongoDBClient is not connected to a database"
	ErrConnecting      = "MongoDBClient: Failed to connect to MongoDB server"
	ErrNoDatabaseName  = "MongoDBClient: Failed to extract database name from datasource name(dsn)"
	ErrCreatingIndexes = "MongoDBClient: Failed to create indexes"
	ErrSeedingCounter  = "MongoDBClient: Failed to seed id counter"
)

// MongoDBClient implements the interfaces.DBClient interface for MongoDB operations.
type MongoDBClient struct {
	ServerOpts   *options.ServerAPIOptions
	client       *mongo.Client
	db           *mongo.Database
	databaseName string
	timeout      time.Duration
	maxPoolSize  uint64
}

// NewMongoDB returns a client configured from dbConfig. Call Connect before use.
func NewMongoDB(dbConfig *config.MongoDBConfig) *MongoDBClient {
	poolSize := dbConfig.MaxPoolSize
	if poolSize == 0 {
		poolSize = MAXPOOLSIZE
	}
	var serverOpts *options.ServerAPIOptions
	if dbConfig.Options.APIVersion != "" {
		serverOpts = config.BuildServerAPIOptions(dbConfig.Options)
	}

	return &MongoDBClient{
		ServerOpts:   serverOpts,
		databaseName: dbConfig.DatabaseName,
		timeout:      dbConfig.Timeout,
		maxPoolSize:  poolSize,
	}
}

// Connect establishes a connection to the MongoDB database using the provided DSN (Data Source Name).
// The database is the configured one, or the first path segment of the DSN when none is configured.
func (m *MongoDBClient) Connect(ctx context.Context, dsn string) error {
	if dsn == "" {
		return errors.New(ErrEmptyDSN)
	}
	if !strings.HasPrefix(dsn, "mongodb://") && !strings.HasPrefix(dsn, "mongodb+srv://") {
		return errors.New(ErrInvalidDSN)
	}

	databaseName := m.databaseName
	if databaseName == "" {
		var err error
		if databaseName, err = getDBNameFromMongoDSN(dsn); err != nil {
			return fmt.Errorf("%s: %w", ErrNoDatabaseName, err)
		}
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	clientOptions := options.Client().ApplyURI(dsn)
	if m.ServerOpts != nil {
		clientOptions.SetServerAPIOptions(m.ServerOpts)
	}
	clientOptions.SetMaxPoolSize(m.maxPoolSize)
	clientOptions.SetReadPreference(readpref.PrimaryPreferred())

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrConnecting, err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("%s: %w", ErrConnecting, err)
	}

	m.client = client
	m.db = client.Database(databaseName)
	return nil
}

// Database returns the active database. It is nil until Connect succeeds.
func (m *MongoDBClient) Database() *mongo.Database {
	return m.db
}

// Disconnect closes the connection to the MongoDB database.
func (m *MongoDBClient) Disconnect(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}
	return nil
}

// Ping verifies the MongoDB connection health using a ping command.
func (m *MongoDBClient) Ping(ctx context.Context) error {
	if m.client == nil {
		return errors.New(ErrNotConnected)
	}
	return m.client.Ping(ctx, nil)
}

// EnsureSchema creates the indexes the repositories rely on.
func (m *MongoDBClient) EnsureSchema(ctx context.Context) error {
	if m.db == nil {
		return errors.New(ErrNotConnected)
	}
	return EnsureIndexes(ctx, m.db)
}

// EnsureIndexes creates the unique username index, the session indexes and
// the user id counter. Existing indexes are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(constants.UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrCreatingIndexes, err)
	}

	_, err = db.Collection(constants.SessionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// the server removes a session once expires_at has passed
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrCreatingIndexes, err)
	}

	_, err = db.Collection(constants.CountersCollection).UpdateOne(ctx,
		bson.M{"_id": constants.UsersCounter},
		bson.M{"$setOnInsert": bson.M{"seq": int64(0)}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSeedingCounter, err)
	}
	return nil
}

// getDBNameFromMongoDSN extracts the database name from a MongoDB DSN.
func getDBNameFromMongoDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MongoDB DSN: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("no database name found in MongoDB DSN path")
	}

	// If the path contains additional segments (e.g., /db/collection), use only the first as the database name.
	if idx := strings.Index(dbName, "/"); idx != -1 {
		dbName = dbName[:idx]
	}

	return dbName, nil
}
