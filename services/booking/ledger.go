package booking

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	bookingRepo "pestguard/database/repository/booking"
	unavailabilityRepo "pestguard/database/repository/unavailability"
	"pestguard/models"
	"pestguard/services/events"
	"pestguard/utils"
)

// ConfirmBooking moves a pending booking to confirmed. Any other starting
// status is rejected so payment callbacks cannot resurrect a cancelled or
// completed booking.
func (se *DefaultBookingEngine) ConfirmBooking(ctx context.Context, bookingID string) error {
	booking, err := se.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status != models.BookingStatusPending {
		return &InvalidTransitionError{BookingID: bookingID, From: booking.Status, To: models.BookingStatusConfirmed}
	}

	if err := se.Bookings.UpdateStatus(ctx, bookingID, models.BookingStatusConfirmed); err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}

	utils.GetLogger().Info("booking confirmed", zap.String("bookingID", bookingID))
	se.notify(ctx, models.RoleUser, booking.UserID,
		fmt.Sprintf("Your booking %s has been confirmed", bookingID))
	booking.Status = models.BookingStatusConfirmed
	se.publish(ctx, events.BookingConfirmed, booking)
	return nil
}

// CancelBooking cancels a booking and releases its technicians. The job
// intervals are deleted in the same transaction that flips the status, so a
// concurrent allocation either sees the technicians as busy or as fully
// released, never half of each.
func (se *DefaultBookingEngine) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := se.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	switch booking.Status {
	case models.BookingStatusCompleted, models.BookingStatusCancelled:
		return &InvalidTransitionError{BookingID: bookingID, From: booking.Status, To: models.BookingStatusCancelled}
	}

	assignments, err := se.Bookings.AssignmentsByBooking(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to load assignments: %w", err)
	}

	keys := make([]string, 0, len(assignments))
	for _, a := range assignments {
		keys = append(keys, technicianLockKey(a.TechnicianID))
	}
	sort.Strings(keys)

	locked := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := se.Locks.Acquire(ctx, key, allocationLockTTL); err != nil {
			se.unlockTechnicians(ctx, locked)
			if err == unavailabilityRepo.ErrLockHeld {
				return ErrAllocationContention
			}
			return fmt.Errorf("failed to acquire allocation lock: %w", err)
		}
		locked = append(locked, key)
	}
	defer se.unlockTechnicians(ctx, locked)

	if err := se.Bookings.ReleaseAllocationTransactionally(ctx, bookingID); err != nil {
		return fmt.Errorf("failed to release allocation: %w", err)
	}

	utils.GetLogger().Info("booking cancelled",
		zap.String("bookingID", bookingID), zap.Int("released", len(assignments)))

	for _, a := range assignments {
		se.notify(ctx, models.RoleTechnician, a.TechnicianID,
			fmt.Sprintf("Booking %s has been cancelled; your slot is free again", bookingID))
	}
	se.notify(ctx, models.RoleUser, booking.UserID,
		fmt.Sprintf("Your booking %s has been cancelled", bookingID))
	booking.Status = models.BookingStatusCancelled
	se.publish(ctx, events.BookingCancelled, booking)
	return nil
}

func (se *DefaultBookingEngine) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return se.getBooking(ctx, bookingID)
}

func (se *DefaultBookingEngine) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return se.Bookings.ListByUser(ctx, userID)
}

func (se *DefaultBookingEngine) ListTechnicianBookings(ctx context.Context, technicianID string) ([]models.Booking, error) {
	return se.Bookings.ListByTechnician(ctx, technicianID)
}

func (se *DefaultBookingEngine) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	return se.Bookings.ListAll(ctx)
}

func (se *DefaultBookingEngine) AssignmentsFor(ctx context.Context, bookingID string) ([]models.Assignment, error) {
	return se.Bookings.AssignmentsByBooking(ctx, bookingID)
}

func (se *DefaultBookingEngine) getBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := se.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if err == bookingRepo.ErrNotFound {
			return nil, &NotFoundError{Resource: "booking", ID: bookingID}
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return booking, nil
}
