package ratelimit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const rateLimitCollection = "rateLimits"

type bucketDocument struct {
	ID        string    `bson:"_id"`
	Count     int64     `bson:"count"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type mongoStore struct {
	db *mongo.Database
}

// NewMongoStore creates a Store backed by a TTL-indexed collection.
func NewMongoStore(ctx context.Context, db *mongo.Database) (Store, error) {
	_, err := db.Collection(rateLimitCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, err
	}

	return &mongoStore{db: db}, nil
}

func (s *mongoStore) Increment(ctx context.Context, bucket string, expiresAt time.Time) (int64, error) {
	filter := bson.M{"_id": bucket}
	update := bson.M{
		"$inc":         bson.M{"count": 1},
		"$setOnInsert": bson.M{"expires_at": expiresAt},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc bucketDocument
	err := s.db.Collection(rateLimitCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// Two first hits raced on the upsert; the bucket exists now.
		err = s.db.Collection(rateLimitCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	}
	if err != nil {
		return 0, err
	}

	return doc.Count, nil
}
