package otpRepo

import (
	"context"
	"errors"

	"pestguard/models"
)

// ErrNotFound is returned when no code has been issued for the booking.
var ErrNotFound = errors.New("completion code not found")

// OTPRepository stores per-booking completion codes. Upsert replaces any
// earlier code for the booking, matching the resend behavior.
type OTPRepository interface {
	Upsert(ctx context.Context, code *models.CompletionCode) error
	GetByBooking(ctx context.Context, bookingID string) (*models.CompletionCode, error)
	MarkUsed(ctx context.Context, bookingID string) error
}
