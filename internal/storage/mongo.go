package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "kv_store"

type mongoEntry struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// MongoStore keeps one document per key, the blob held as a string.
type MongoStore struct {
	db   *mongo.Database
	coll *mongo.Collection
}

// NewMongoStore uses the kv_store collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, coll: db.Collection(mongoCollection)}
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry mongoEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get %s: %w", key, err)
	}
	return []byte(entry.Value), nil
}

func (s *MongoStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		mongoEntry{Key: key, Value: string(value)},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo put %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func (s *MongoStore) Close() error {
	return s.db.Client().Disconnect(context.Background())
}

func (s *MongoStore) Name() string { return "mongo" }
