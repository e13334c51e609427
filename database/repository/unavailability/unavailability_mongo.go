package unavailabilityRepo

import (
	"context"
	"fmt"
	"time"

	"pestguard/database"
	"pestguard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUnavailabilityRepo implements UnavailabilityRepository using MongoDB.
type MongoUnavailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoUnavailabilityRepo constructs a new instance of MongoUnavailabilityRepo.
func NewMongoUnavailabilityRepo() UnavailabilityRepository {
	repo := &MongoUnavailabilityRepo{
		coll: database.DB().Collection("technician_unavailable"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("warning: failed to ensure unavailability indexes: %v\n", err)
	}
	return repo
}

func (repo *MongoUnavailabilityRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "technician_id", Value: 1}, {Key: "start", Value: 1}, {Key: "end", Value: 1}}},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
	}

	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (repo *MongoUnavailabilityRepo) Insert(ctx context.Context, iv *models.UnavailabilityInterval) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, iv); err != nil {
		return fmt.Errorf("error creating unavailability interval: %w", err)
	}
	return nil
}

func (repo *MongoUnavailabilityRepo) GetByID(ctx context.Context, id string) (*models.UnavailabilityInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var iv models.UnavailabilityInterval
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&iv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching unavailability interval %s: %w", id, err)
	}
	return &iv, nil
}

// FindOverlapping applies the half-open overlap predicate
// (existing.start < end AND existing.end > start) in a single query.
func (repo *MongoUnavailabilityRepo) FindOverlapping(ctx context.Context, technicianID string, start, end time.Time) ([]models.UnavailabilityInterval, error) {
	filter := bson.M{
		"technician_id": technicianID,
		"start":         bson.M{"$lt": end},
		"end":           bson.M{"$gt": start},
	}
	return repo.find(ctx, filter)
}

func (repo *MongoUnavailabilityRepo) FindBlocking(ctx context.Context, technicianID string, start, end time.Time) ([]models.UnavailabilityInterval, error) {
	filter := bson.M{
		"technician_id": technicianID,
		"start":         bson.M{"$lt": end},
		"end":           bson.M{"$gt": start},
		"$or": bson.A{
			bson.M{"reason": models.UnavailabilityReasonJob},
			bson.M{"status": models.UnavailabilityStatusApproved},
		},
	}
	return repo.find(ctx, filter)
}

func (repo *MongoUnavailabilityRepo) ListByTechnician(ctx context.Context, technicianID string, excludeJobs bool) ([]models.UnavailabilityInterval, error) {
	filter := bson.M{"technician_id": technicianID}
	if excludeJobs {
		filter["reason"] = bson.M{"$ne": models.UnavailabilityReasonJob}
	}
	return repo.find(ctx, filter)
}

func (repo *MongoUnavailabilityRepo) ListLeavesByStatus(ctx context.Context, status string) ([]models.UnavailabilityInterval, error) {
	filter := bson.M{
		"reason": bson.M{"$ne": models.UnavailabilityReasonJob},
		"status": status,
	}
	return repo.find(ctx, filter)
}

func (repo *MongoUnavailabilityRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("error updating unavailability interval %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoUnavailabilityRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting unavailability interval %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoUnavailabilityRepo) find(ctx context.Context, filter bson.M) ([]models.UnavailabilityInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching unavailability intervals: %w", err)
	}
	defer cursor.Close(ctx)

	var intervals []models.UnavailabilityInterval
	if err := cursor.All(ctx, &intervals); err != nil {
		return nil, fmt.Errorf("error decoding unavailability intervals: %w", err)
	}
	return intervals, nil
}
