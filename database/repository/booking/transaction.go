package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"pestguard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AllocateTransactionally writes the whole allocation atomically. Callers
// hold the per-technician advisory locks; the availability re-check inside
// the transaction is the last line of defense for the no-overlap invariant.
func (repo *MongoBookingRepo) AllocateTransactionally(
	ctx context.Context,
	booking *models.Booking,
	assignments []models.Assignment,
	jobIntervals []models.UnavailabilityInterval,
	assignedAt time.Time,
) error {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		for _, iv := range jobIntervals {
			filter := bson.M{
				"technician_id": iv.TechnicianID,
				"start":         bson.M{"$lt": iv.End},
				"end":           bson.M{"$gt": iv.Start},
				"$or": bson.A{
					bson.M{"reason": models.UnavailabilityReasonJob},
					bson.M{"status": models.UnavailabilityStatusApproved},
				},
			}
			n, err := repo.unavailColl.CountDocuments(sc, filter)
			if err != nil {
				return fmt.Errorf("availability re-check failed for technician %s: %w", iv.TechnicianID, err)
			}
			if n > 0 {
				return ErrTechnicianBusy
			}
		}

		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}

		for i := range assignments {
			if _, err := repo.assignmentColl.InsertOne(sc, assignments[i]); err != nil {
				return fmt.Errorf("insert assignment failed: %w", err)
			}
		}
		for i := range jobIntervals {
			if _, err := repo.unavailColl.InsertOne(sc, jobIntervals[i]); err != nil {
				return fmt.Errorf("insert job interval failed: %w", err)
			}
		}

		for _, a := range assignments {
			res, err := repo.technicianColl.UpdateOne(sc,
				bson.M{"id": a.TechnicianID},
				bson.M{"$set": bson.M{"last_assigned_at": assignedAt}},
			)
			if err != nil {
				return fmt.Errorf("update last_assigned_at failed for technician %s: %w", a.TechnicianID, err)
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("technician %s vanished during allocation", a.TechnicianID)
			}
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrTechnicianBusy {
			return err
		}
		return fmt.Errorf("allocation transaction failed: %w", err)
	}

	return nil
}

// ReleaseAllocationTransactionally voids a booking's hold on its
// technicians: the booking flips to cancelled and every job interval the
// allocation created is deleted, in one transaction.
func (repo *MongoBookingRepo) ReleaseAllocationTransactionally(ctx context.Context, bookingID string) error {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		update := bson.M{"$set": bson.M{"status": models.BookingStatusCancelled, "updated_at": time.Now()}}
		res, err := repo.bookingColl.UpdateOne(sc, bson.M{"id": bookingID}, update)
		if err != nil {
			return fmt.Errorf("cancel booking failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}

		filter := bson.M{"booking_id": bookingID, "reason": models.UnavailabilityReasonJob}
		if _, err := repo.unavailColl.DeleteMany(sc, filter); err != nil {
			return fmt.Errorf("release job intervals failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrNotFound {
			return err
		}
		return fmt.Errorf("release transaction failed: %w", err)
	}

	return nil
}
