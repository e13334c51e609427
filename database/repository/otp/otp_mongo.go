package otpRepo

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

// MongoOTPRepo implements OTPRepository using MongoDB.
type MongoOTPRepo struct {
	coll *mongo.Collection
}

// NewMongoOTPRepo constructs a new instance of MongoOTPRepo.
func NewMongoOTPRepo() OTPRepository {
	repo := &MongoOTPRepo{
		coll: database.DB().Collection("otp_verifications"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("warning: failed to ensure OTP indexes: %v\n", err)
	}
	return repo
}

func (repo *MongoOTPRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create OTP index: %w", err)
	}
	return nil
}

func (repo *MongoOTPRepo) Upsert(ctx context.Context, code *models.CompletionCode) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"booking_id": code.BookingID}
	update := bson.M{"$set": code}
	opts := options.Update().SetUpsert(true)
	if _, err := repo.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("error storing completion code for booking %s: %w", code.BookingID, err)
	}
	return nil
}

func (repo *MongoOTPRepo) GetByBooking(ctx context.Context, bookingID string) (*models.CompletionCode, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var code models.CompletionCode
	if err := repo.coll.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&code); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching completion code for booking %s: %w", bookingID, err)
	}
	return &code, nil
}

func (repo *MongoOTPRepo) MarkUsed(ctx context.Context, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"booking_id": bookingID},
		bson.M{"$set": bson.M{"used": true}},
	)
	if err != nil {
		return fmt.Errorf("error marking completion code used for booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
