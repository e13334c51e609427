package booking

import (
	"context"
	"time"

	bookingRepo "pestguard/database/repository/booking"
	catalogRepo "pestguard/database/repository/catalog"
	otpRepo "pestguard/database/repository/otp"
	technicianRepo "pestguard/database/repository/technician"
	unavailabilityRepo "pestguard/database/repository/unavailability"
	"pestguard/models"
	"pestguard/services/events"
	"pestguard/services/notification"
)

// CreateBookingRequest carries everything needed to create and staff a
// booking. BookingID may be supplied by the caller to make retries
// idempotent; when empty a fresh id is generated.
type CreateBookingRequest struct {
	BookingID    string
	UserID       string
	ServiceID    string
	Date         time.Time
	Location     models.GeoPoint
	Requirements string
}

// BookingService owns the booking lifecycle and technician allocation.
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID string) error
	CancelBooking(ctx context.Context, bookingID string) error
	RequestCompletion(ctx context.Context, bookingID, technicianID string) (*models.CompletionCode, error)
	VerifyCompletion(ctx context.Context, bookingID, technicianID, code string) error
	InitiatePayment(ctx context.Context, bookingID string) (string, error)
	VerifyPayment(ctx context.Context, bookingID, gatewayPaymentID string, amount float64) error

	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	ListTechnicianBookings(ctx context.Context, technicianID string) ([]models.Booking, error)
	ListAllBookings(ctx context.Context) ([]models.Booking, error)
	AssignmentsFor(ctx context.Context, bookingID string) ([]models.Assignment, error)
}

// DefaultBookingEngine implements BookingService.
type DefaultBookingEngine struct {
	Bookings     bookingRepo.BookingRepository
	Locks        unavailabilityRepo.LockRepository
	Technicians  technicianRepo.TechnicianRepository
	Catalog      catalogRepo.CatalogRepository
	Codes        otpRepo.OTPRepository
	Availability *AvailabilityIndex
	Notifier     notification.NotificationService
	Events       events.Publisher

	// Now is the clock; tests override it. CodeTTL bounds completion-code
	// validity and defaults to five minutes.
	Now     func() time.Time
	CodeTTL time.Duration
}

func (se *DefaultBookingEngine) now() time.Time {
	if se.Now != nil {
		return se.Now()
	}
	return time.Now()
}

func (se *DefaultBookingEngine) codeTTL() time.Duration {
	if se.CodeTTL > 0 {
		return se.CodeTTL
	}
	return 5 * time.Minute
}
