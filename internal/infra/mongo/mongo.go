package mongo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"quiz-submission-service/internal/domain"
)

// Collection names. All eight variants share one submissions collection.
const (
	SubmissionsCollection = "submissions"
	UserDetailsCollection = "userdetails"
	AccountsCollection    = "users"
	AttemptsCollection    = "quizsubmissions"
	QuizzesCollection     = "quizzes"
)

// Connect dials MongoDB, verifies the connection and returns the named database.
func Connect(ctx context.Context, uri, database string, poolSize uint64) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(uri)
	if poolSize > 0 {
		clientOptions.SetMaxPoolSize(poolSize)
	}
	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Printf("connected to MongoDB database %s", database)
	return client, client.Database(database), nil
}

// Disconnect closes the client, bounded by a 10s timeout.
func Disconnect(client *mongo.Client) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Printf("disconnect mongo: %v", err)
	}
}

// EnsureIndexes creates the lookup indexes and the unique account email index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		SubmissionsCollection: {
			{Keys: bson.D{{Key: "variant", Value: 1}, {Key: "userEmail", Value: 1}, {Key: "submittedAt", Value: -1}}},
			{Keys: bson.D{{Key: "variant", Value: 1}, {Key: "submittedAt", Value: -1}}},
			{Keys: bson.D{{Key: "variant", Value: 1}, {Key: "userId", Value: 1}}},
		},
		UserDetailsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		AccountsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		AttemptsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "submittedAt", Value: -1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func objectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, domain.ErrNotFound
	}
	return oid, nil
}

func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

var newestFirst = bson.D{{Key: "submittedAt", Value: -1}}
