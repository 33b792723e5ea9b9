package repository

import (
	"context"
	"sync"
	"time"

	"flightlo-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// feedCacheEntry is the stored form of one cached feed response
type feedCacheEntry struct {
	Key       string    `bson:"_id"`
	Body      []byte    `bson:"body"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoFeedCache implements the FeedCache interface on a MongoDB collection
// with a TTL index
type MongoFeedCache struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoFeedCache creates a new MongoDB feed cache
func NewMongoFeedCache(ctx context.Context, db *mongo.Database) (repository.FeedCache, error) {
	collection := db.Collection("feed_cache")

	// Documents are removed by the server once expiresAt has passed
	ttlIndex := mongo.IndexModel{
		Keys:    bson.M{"expiresAt": 1},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := collection.Indexes().CreateOne(ctx, ttlIndex); err != nil {
		return nil, err
	}

	return &MongoFeedCache{
		collection: collection,
		now:        time.Now,
	}, nil
}

// Get returns the cached body for key. The TTL monitor runs about once a
// minute, so expiry is checked here as well.
func (c *MongoFeedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry feedCacheEntry
	err := c.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !entry.ExpiresAt.After(c.now()) {
		return nil, false, nil
	}
	return entry.Body, true, nil
}

// Set stores body under key for ttl
func (c *MongoFeedCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	entry := feedCacheEntry{
		Key:       key,
		Body:      body,
		ExpiresAt: c.now().Add(ttl),
	}
	_, err := c.collection.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	return err
}

// MemoryFeedCache is an in-process FeedCache used when MongoDB is not configured
type MemoryFeedCache struct {
	mu      sync.Mutex
	entries map[string]feedCacheEntry
	now     func() time.Time
}

// NewMemoryFeedCache creates an empty in-memory feed cache
func NewMemoryFeedCache() *MemoryFeedCache {
	return &MemoryFeedCache{
		entries: make(map[string]feedCacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached body for key if it has not expired
func (c *MemoryFeedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.ExpiresAt.After(c.now()) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return entry.Body, true, nil
}

// Set stores body under key for ttl
func (c *MemoryFeedCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = feedCacheEntry{Key: key, Body: body, ExpiresAt: c.now().Add(ttl)}
	return nil
}
