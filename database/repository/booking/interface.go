package bookingRepo

import (
	"context"
	"errors"
	"time"

	"pestguard/models"
)

var (
	// ErrNotFound is returned when no booking matches the given id.
	ErrNotFound = errors.New("booking not found")
	// ErrTechnicianBusy is returned when the in-transaction availability
	// re-check finds a chosen technician no longer free. Safe to retry
	// with a fresh candidate set.
	ErrTechnicianBusy = errors.New("technician no longer available")
)

// BookingRepository defines persistence operations for bookings, their
// technician assignments, and recorded payments.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByTechnician(ctx context.Context, technicianID string) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
	AssignmentsByBooking(ctx context.Context, bookingID string) ([]models.Assignment, error)
	RecordPayment(ctx context.Context, payment *models.Payment) error

	// AllocateTransactionally commits a whole allocation in one
	// transaction: the booking, one assignment and one job interval per
	// technician, and each technician's last_assigned_at bump. A failed
	// availability re-check aborts with ErrTechnicianBusy and no write
	// survives.
	AllocateTransactionally(ctx context.Context, booking *models.Booking, assignments []models.Assignment, jobIntervals []models.UnavailabilityInterval, assignedAt time.Time) error

	// ReleaseAllocationTransactionally cancels the booking and deletes its
	// job intervals in one transaction, reopening the technicians' slots.
	ReleaseAllocationTransactionally(ctx context.Context, bookingID string) error
}
