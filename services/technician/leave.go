package technician

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	technicianRepo "pestguard/database/repository/technician"
	unavailabilityRepo "pestguard/database/repository/unavailability"
	"pestguard/models"
	"pestguard/services/events"
	"pestguard/services/notification"
	"pestguard/utils"
)

const leaveLockTTL = 10 * time.Second

// LeaveRequest is a technician's ask for time off.
type LeaveRequest struct {
	TechnicianID string
	Start        time.Time
	End          time.Time
	Reason       string
}

// TechnicianService owns the roster, leave requests, and the technician
// dashboard.
type TechnicianService interface {
	CreateTechnician(ctx context.Context, tech *models.Technician) (*models.Technician, error)
	GetTechnician(ctx context.Context, id string) (*models.Technician, error)
	ListTechnicians(ctx context.Context) ([]models.Technician, error)
	UpdateTechnician(ctx context.Context, tech *models.Technician) error
	DeleteTechnician(ctx context.Context, id string) error

	SubmitLeave(ctx context.Context, req LeaveRequest) (*models.UnavailabilityInterval, error)
	CancelLeave(ctx context.Context, technicianID, leaveID string) error
	DecideLeave(ctx context.Context, leaveID string, approve bool) (*models.UnavailabilityInterval, error)
	ListLeaves(ctx context.Context, technicianID string) ([]models.UnavailabilityInterval, error)
	PendingLeaves(ctx context.Context) ([]models.UnavailabilityInterval, error)
	Dashboard(ctx context.Context, technicianID string) (*Dashboard, error)
}

// DefaultTechnicianService implements TechnicianService.
type DefaultTechnicianService struct {
	Technicians technicianRepo.TechnicianRepository
	Unavail     unavailabilityRepo.UnavailabilityRepository
	Locks       unavailabilityRepo.LockRepository
	Bookings    bookingLister
	Notifier    notification.NotificationService
	Events      events.Publisher

	Now func() time.Time
}

// bookingLister is the slice of the booking repository the dashboard needs.
type bookingLister interface {
	ListByTechnician(ctx context.Context, technicianID string) ([]models.Booking, error)
}

func (s *DefaultTechnicianService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// lockTechnician takes the technician's advisory lock, the same lock the
// allocator holds while it writes job intervals. Contention is retryable.
func (s *DefaultTechnicianService) lockTechnician(ctx context.Context, technicianID string) (func(), error) {
	key := "tech:" + technicianID
	if err := s.Locks.Acquire(ctx, key, leaveLockTTL); err != nil {
		if err == unavailabilityRepo.ErrLockHeld {
			return nil, ErrLeaveContention
		}
		return nil, fmt.Errorf("failed to acquire allocation lock: %w", err)
	}
	return func() {
		if err := s.Locks.Release(ctx, key); err != nil {
			utils.GetLogger().Warn("failed to release allocation lock",
				zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// SubmitLeave validates the requested window against every existing
// interval for the technician and inserts a pending leave. Job overlaps and
// leave overlaps fail with distinguishable errors; a rejected leave does
// not block resubmission of the same window.
func (s *DefaultTechnicianService) SubmitLeave(ctx context.Context, req LeaveRequest) (*models.UnavailabilityInterval, error) {
	if !req.End.After(req.Start) {
		return nil, ErrInvalidInterval
	}
	if req.Reason == "" || req.Reason == models.UnavailabilityReasonJob {
		return nil, fmt.Errorf("invalid leave reason %q", req.Reason)
	}
	if _, err := s.Technicians.GetByID(ctx, req.TechnicianID); err != nil {
		if err == technicianRepo.ErrNotFound {
			return nil, fmt.Errorf("technician %s not found", req.TechnicianID)
		}
		return nil, fmt.Errorf("failed to load technician: %w", err)
	}

	unlock, err := s.lockTechnician(ctx, req.TechnicianID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	overlapping, err := s.Unavail.FindOverlapping(ctx, req.TechnicianID, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("failed to check for overlaps: %w", err)
	}
	for _, iv := range overlapping {
		if iv.Reason == models.UnavailabilityReasonJob {
			return nil, ErrJobConflict
		}
		if iv.Status != models.UnavailabilityStatusRejected {
			return nil, ErrLeaveConflict
		}
	}

	leave := &models.UnavailabilityInterval{
		ID:           uuid.New().String(),
		TechnicianID: req.TechnicianID,
		Start:        req.Start,
		End:          req.End,
		Reason:       req.Reason,
		Status:       models.UnavailabilityStatusPending,
		CreatedAt:    s.now(),
	}
	if err := s.Unavail.Insert(ctx, leave); err != nil {
		return nil, fmt.Errorf("failed to store leave request: %w", err)
	}

	utils.GetLogger().Info("leave submitted",
		zap.String("leaveID", leave.ID),
		zap.String("technicianID", req.TechnicianID),
		zap.String("reason", req.Reason))
	return leave, nil
}

// CancelLeave deletes a technician's own leave. Pending or approved leaves
// may be cancelled; job intervals are out of reach.
func (s *DefaultTechnicianService) CancelLeave(ctx context.Context, technicianID, leaveID string) error {
	leave, err := s.getLeave(ctx, leaveID)
	if err != nil {
		return err
	}
	if leave.TechnicianID != technicianID {
		return ErrNotOwner
	}
	if err := s.Unavail.Delete(ctx, leaveID); err != nil {
		return fmt.Errorf("failed to delete leave: %w", err)
	}
	utils.GetLogger().Info("leave cancelled",
		zap.String("leaveID", leaveID), zap.String("technicianID", technicianID))
	return nil
}

// DecideLeave applies an admin approval or rejection to a pending leave.
// Rejection has no further side effect. Approval turns a non-blocking
// interval into a blocking one, so it takes the technician's lock and
// re-checks the window against job intervals committed since submission;
// an overlap fails with ErrJobConflict and the leave stays pending.
func (s *DefaultTechnicianService) DecideLeave(ctx context.Context, leaveID string, approve bool) (*models.UnavailabilityInterval, error) {
	leave, err := s.getLeave(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	if leave.Status != models.UnavailabilityStatusPending {
		return nil, ErrAlreadyDecided
	}

	status := models.UnavailabilityStatusRejected
	verdict := "rejected"
	if approve {
		status = models.UnavailabilityStatusApproved
		verdict = "approved"

		unlock, err := s.lockTechnician(ctx, leave.TechnicianID)
		if err != nil {
			return nil, err
		}
		defer unlock()

		overlapping, err := s.Unavail.FindOverlapping(ctx, leave.TechnicianID, leave.Start, leave.End)
		if err != nil {
			return nil, fmt.Errorf("failed to check for overlaps: %w", err)
		}
		for _, iv := range overlapping {
			if iv.Reason == models.UnavailabilityReasonJob {
				return nil, ErrJobConflict
			}
		}
	}
	if err := s.Unavail.UpdateStatus(ctx, leaveID, status); err != nil {
		return nil, fmt.Errorf("failed to update leave status: %w", err)
	}
	leave.Status = status

	utils.GetLogger().Info("leave decided",
		zap.String("leaveID", leaveID), zap.String("status", status))
	if s.Notifier != nil {
		if err := s.Notifier.Notify(ctx, models.RoleTechnician, leave.TechnicianID,
			fmt.Sprintf("Your leave request from %s to %s was %s",
				leave.Start.Format("2006-01-02"), leave.End.Format("2006-01-02"), verdict)); err != nil {
			utils.GetLogger().Warn("failed to send leave notification",
				zap.String("leaveID", leaveID), zap.Error(err))
		}
	}
	if s.Events != nil {
		if err := s.Events.Publish(ctx, events.LeaveDecided, leaveID, status); err != nil {
			utils.GetLogger().Warn("failed to publish leave event",
				zap.String("leaveID", leaveID), zap.Error(err))
		}
	}
	return leave, nil
}

// ListLeaves returns the technician's leave history, job intervals excluded.
func (s *DefaultTechnicianService) ListLeaves(ctx context.Context, technicianID string) ([]models.UnavailabilityInterval, error) {
	return s.Unavail.ListByTechnician(ctx, technicianID, true)
}

// PendingLeaves returns every leave awaiting an admin decision.
func (s *DefaultTechnicianService) PendingLeaves(ctx context.Context) ([]models.UnavailabilityInterval, error) {
	return s.Unavail.ListLeavesByStatus(ctx, models.UnavailabilityStatusPending)
}

func (s *DefaultTechnicianService) getLeave(ctx context.Context, leaveID string) (*models.UnavailabilityInterval, error) {
	leave, err := s.Unavail.GetByID(ctx, leaveID)
	if err != nil {
		if err == unavailabilityRepo.ErrNotFound {
			return nil, fmt.Errorf("leave %s not found", leaveID)
		}
		return nil, fmt.Errorf("failed to load leave: %w", err)
	}
	if leave.Reason == models.UnavailabilityReasonJob {
		return nil, ErrNotLeave
	}
	return leave, nil
}
