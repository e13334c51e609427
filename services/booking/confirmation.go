package booking

import (
	"context"
	"crypto/subtle"
	"fmt"

	"go.uber.org/zap"

	otpRepo "pestguard/database/repository/otp"
	"pestguard/models"
	"pestguard/services/events"
	"pestguard/utils"
)

// RequestCompletion issues a one-time completion code for a confirmed
// booking. Only an assigned technician may ask for one; re-requesting
// replaces the previous code.
func (se *DefaultBookingEngine) RequestCompletion(ctx context.Context, bookingID, technicianID string) (*models.CompletionCode, error) {
	booking, err := se.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, &InvalidTransitionError{BookingID: bookingID, From: booking.Status, To: models.BookingStatusCompleted}
	}
	if err := se.requireAssigned(ctx, bookingID, technicianID); err != nil {
		return nil, err
	}

	digits, err := utils.GenerateNumericCode(6)
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion code: %w", err)
	}

	now := se.now()
	code := &models.CompletionCode{
		BookingID: bookingID,
		Code:      digits,
		ExpiresAt: now.Add(se.codeTTL()),
		Used:      false,
		CreatedAt: now,
	}
	if err := se.Codes.Upsert(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to store completion code: %w", err)
	}

	utils.GetLogger().Info("completion code issued",
		zap.String("bookingID", bookingID), zap.String("technicianID", technicianID))
	se.notify(ctx, models.RoleUser, booking.UserID,
		fmt.Sprintf("Your completion code for booking %s is %s", bookingID, digits))
	return code, nil
}

// VerifyCompletion checks the relayed code and, on success, consumes it and
// marks the booking completed. Failure reasons are reported in a fixed
// order: no code issued, code already used, wrong code, expired code.
func (se *DefaultBookingEngine) VerifyCompletion(ctx context.Context, bookingID, technicianID, code string) error {
	booking, err := se.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status != models.BookingStatusConfirmed {
		return &InvalidTransitionError{BookingID: bookingID, From: booking.Status, To: models.BookingStatusCompleted}
	}
	if err := se.requireAssigned(ctx, bookingID, technicianID); err != nil {
		return err
	}

	stored, err := se.Codes.GetByBooking(ctx, bookingID)
	if err != nil {
		if err == otpRepo.ErrNotFound {
			return ErrCodeNotIssued
		}
		return fmt.Errorf("failed to load completion code: %w", err)
	}
	if stored.Used {
		return ErrCodeAlreadyUsed
	}
	if subtle.ConstantTimeCompare([]byte(stored.Code), []byte(code)) != 1 {
		return ErrInvalidCode
	}
	if se.now().After(stored.ExpiresAt) {
		return ErrCodeExpired
	}

	// The status flip comes first. Once the booking leaves confirmed, the
	// guard above blocks a replay even when the code is left unspent.
	if err := se.Bookings.UpdateStatus(ctx, bookingID, models.BookingStatusCompleted); err != nil {
		return fmt.Errorf("failed to complete booking: %w", err)
	}
	if err := se.Codes.MarkUsed(ctx, bookingID); err != nil {
		utils.GetLogger().Warn("failed to consume completion code",
			zap.String("bookingID", bookingID), zap.Error(err))
	}

	utils.GetLogger().Info("booking completed",
		zap.String("bookingID", bookingID), zap.String("technicianID", technicianID))
	se.notify(ctx, models.RoleUser, booking.UserID,
		fmt.Sprintf("Your booking %s has been completed. Thank you!", bookingID))
	booking.Status = models.BookingStatusCompleted
	se.publish(ctx, events.BookingCompleted, booking)
	return nil
}

func (se *DefaultBookingEngine) requireAssigned(ctx context.Context, bookingID, technicianID string) error {
	assignments, err := se.Bookings.AssignmentsByBooking(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to load assignments: %w", err)
	}
	for _, a := range assignments {
		if a.TechnicianID == technicianID {
			return nil
		}
	}
	return ErrNotAssigned
}
