package unavailabilityRepo

import (
	"context"
	"fmt"
	"time"

	"pestguard/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type lockDoc struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoLockRepo provides advisory locks: a unique _id insert acquires the
// lock, a duplicate key error means another writer holds it. A TTL index on
// expires_at reaps locks abandoned by crashed requests.
type MongoLockRepo struct {
	coll *mongo.Collection
}

// NewMongoLockRepo constructs a new instance of MongoLockRepo.
func NewMongoLockRepo() LockRepository {
	repo := &MongoLockRepo{
		coll: database.DB().Collection("allocation_locks"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("warning: failed to ensure lock indexes: %v\n", err)
	}
	return repo
}

func (repo *MongoLockRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := repo.coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create lock TTL index: %w", err)
	}
	return nil
}

func (repo *MongoLockRepo) Acquire(ctx context.Context, key string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	doc := lockDoc{ID: key, ExpiresAt: now.Add(ttl), CreatedAt: now}
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrLockHeld
		}
		return fmt.Errorf("error acquiring lock %s: %w", key, err)
	}
	return nil
}

func (repo *MongoLockRepo) Release(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("error releasing lock %s: %w", key, err)
	}
	return nil
}
