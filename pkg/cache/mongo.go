package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection is the collection entries are stored in.
const MongoCollection = "cache"

// MongoCache stores entries as documents in MongoDB. It is the durable tier
// behind a [RedisCache] in [TieredCache]. Expired documents are skipped on
// read and removed by a TTL index on expires_at.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to uri, e.g. "mongodb://localhost:27017", and
// stores entries in the given database. It creates the TTL index, so the
// server must be reachable.
func NewMongoCache(ctx context.Context, uri, database string) (*MongoCache, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	c := &MongoCache{client: client, coll: client.Database(database).Collection(MongoCollection)}
	if err := c.ensureIndex(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return c, nil
}

func (c *MongoCache) ensureIndex(ctx context.Context) error {
	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return c.unavailable(err)
	}
	return nil
}

// Ping checks that the server answers.
func (c *MongoCache) Ping(ctx context.Context) error {
	return c.unavailable(c.client.Ping(ctx, nil))
}

// Get returns the entry for key. Transient failures are retried.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		entry mongoEntry
		found bool
	)
	err := RetryWithBackoff(ctx, func() error {
		err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
		if errors.Is(err, mongo.ErrNoDocuments) {
			found = false
			return nil
		}
		if err != nil {
			return Retryable(c.unavailable(err))
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return nil, false, err
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		return nil, false, nil
	}
	if entry.Data == nil {
		entry.Data = []byte{}
	}
	return entry.Data, true, nil
}

// Set upserts data under key. A zero ttl keeps the entry until it is deleted.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		entry.ExpiresAt = &exp
	}
	return RetryWithBackoff(ctx, func() error {
		_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
		return Retryable(c.unavailable(err))
	})
}

// Delete removes key.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": key})
	return c.unavailable(err)
}

// Close disconnects the client.
func (c *MongoCache) Close() error {
	return c.client.Disconnect(context.Background())
}

func (c *MongoCache) unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

var _ Cache = (*MongoCache)(nil)
