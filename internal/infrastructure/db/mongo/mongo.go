// Package mongo is the document-store alternative to the postgres store.
// Numeric ids are drawn from a counters collection so that both stores hand
// out the same id shapes.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second

	collectionAccounts  = "accounts"
	collectionQuestions = "questions"
	collectionAnswers   = "answers"
	collectionCounters  = "counters"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the unique email index and the answer lookup index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := db.Collection(collectionAccounts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("accounts index: %w", err)
	}

	_, err = db.Collection(collectionQuestions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "account_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("questions index: %w", err)
	}

	_, err = db.Collection(collectionAnswers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "question_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("answers index: %w", err)
	}
	return nil
}

type counter struct {
	Seq int64 `bson:"seq"`
}

// nextID atomically increments and returns the named sequence, starting at 1.
func nextID(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counter
	err := db.Collection(collectionCounters).
		FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).
		Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return c.Seq, nil
}

// classify converts a driver error into a domain error.
func classify(op string, err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return domain.E(domain.KindConflict, op, err)
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.E(domain.KindQuery, op, domain.ErrNotFound)
	default:
		return domain.E(domain.KindQuery, op, err)
	}
}
