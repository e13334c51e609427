package unavailabilityRepo

import (
	"context"
	"errors"
	"time"

	"pestguard/models"
)

var (
	// ErrNotFound is returned when no interval matches the given id.
	ErrNotFound = errors.New("unavailability interval not found")
	// ErrLockHeld signals that another request holds the technician's
	// allocation lock.
	ErrLockHeld = errors.New("technician allocation lock already held")
)

// UnavailabilityRepository defines persistence operations for technician
// unavailability intervals. Writes flow exclusively through the allocator,
// the leave resolver, and the cancellation path.
type UnavailabilityRepository interface {
	Insert(ctx context.Context, iv *models.UnavailabilityInterval) error
	GetByID(ctx context.Context, id string) (*models.UnavailabilityInterval, error)
	// FindOverlapping returns every interval for the technician, of any
	// reason or status, overlapping the half-open [start, end).
	FindOverlapping(ctx context.Context, technicianID string, start, end time.Time) ([]models.UnavailabilityInterval, error)
	// FindBlocking narrows FindOverlapping to intervals that currently
	// block allocation: job-reason, or approved leave.
	FindBlocking(ctx context.Context, technicianID string, start, end time.Time) ([]models.UnavailabilityInterval, error)
	ListByTechnician(ctx context.Context, technicianID string, excludeJobs bool) ([]models.UnavailabilityInterval, error)
	ListLeavesByStatus(ctx context.Context, status string) ([]models.UnavailabilityInterval, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// LockRepository provides short-lived advisory locks keyed per technician,
// serializing every writer of that technician's unavailability rows.
type LockRepository interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}
