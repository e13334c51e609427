package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "pestguard/database/repository/booking"
	catalogRepo "pestguard/database/repository/catalog"
	unavailabilityRepo "pestguard/database/repository/unavailability"
	"pestguard/models"
	"pestguard/services/events"
	"pestguard/utils"
)

const (
	allocationLockTTL     = 10 * time.Second
	maxAllocationAttempts = 3
)

// CreateBooking creates a pending booking and atomically reserves the
// service's required technician count for the booking's calendar day.
// Either every write lands (booking, assignments, job intervals,
// last_assigned_at bumps) or none does.
func (se *DefaultBookingEngine) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	logger := utils.GetLogger()

	svc, err := se.Catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		if err == catalogRepo.ErrNotFound {
			return nil, &NotFoundError{Resource: "service", ID: req.ServiceID}
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}

	bookingID := req.BookingID
	if bookingID == "" {
		bookingID = uuid.New().String()
	} else {
		// Retry with the same booking id must not double-assign: if a
		// previous attempt committed, hand back what it created.
		existing, err := se.Bookings.GetByID(ctx, bookingID)
		if err == nil {
			return existing, nil
		}
		if err != bookingRepo.ErrNotFound {
			return nil, fmt.Errorf("failed to check for existing booking: %w", err)
		}
	}

	now := se.now()
	start, end := dayInterval(req.Date)
	booking := &models.Booking{
		ID:           bookingID,
		UserID:       req.UserID,
		ServiceID:    req.ServiceID,
		BookingDate:  req.Date,
		Location:     req.Location,
		Requirements: req.Requirements,
		Status:       models.BookingStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		chosen, err := se.selectCandidates(ctx, svc.TechniciansNeeded, start, end)
		if err != nil {
			return nil, err
		}

		locked, err := se.lockTechnicians(ctx, chosen)
		if err != nil {
			if err == unavailabilityRepo.ErrLockHeld {
				logger.Debug("allocation lock contention",
					zap.String("bookingID", bookingID), zap.Int("attempt", attempt))
				continue
			}
			return nil, err
		}

		assignedAt := se.now()
		assignments := make([]models.Assignment, 0, len(chosen))
		jobIntervals := make([]models.UnavailabilityInterval, 0, len(chosen))
		for _, tech := range chosen {
			assignments = append(assignments, models.Assignment{
				ID:           uuid.New().String(),
				BookingID:    bookingID,
				TechnicianID: tech.ID,
				AssignedAt:   assignedAt,
			})
			jobIntervals = append(jobIntervals, models.UnavailabilityInterval{
				ID:           uuid.New().String(),
				TechnicianID: tech.ID,
				Start:        start,
				End:          end,
				Reason:       models.UnavailabilityReasonJob,
				Status:       models.UnavailabilityStatusApproved,
				BookingID:    bookingID,
				CreatedAt:    assignedAt,
			})
		}

		err = se.Bookings.AllocateTransactionally(ctx, booking, assignments, jobIntervals, assignedAt)
		se.unlockTechnicians(ctx, locked)

		if err == bookingRepo.ErrTechnicianBusy {
			logger.Debug("allocation re-check conflict, retrying",
				zap.String("bookingID", bookingID), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		logger.Info("booking allocated",
			zap.String("bookingID", bookingID),
			zap.String("serviceID", svc.ID),
			zap.Int("technicians", len(chosen)))

		for _, tech := range chosen {
			se.notify(ctx, models.RoleTechnician, tech.ID,
				fmt.Sprintf("You have been assigned to booking %s on %s", bookingID, req.Date.Format("2006-01-02")))
		}
		se.notify(ctx, models.RoleUser, req.UserID,
			fmt.Sprintf("Your booking %s is pending payment confirmation", bookingID))
		se.publish(ctx, events.BookingCreated, booking)

		return booking, nil
	}

	return nil, ErrAllocationContention
}

// selectCandidates returns the technicians to assign: every free technician
// for the interval, ranked by oldest last_assigned_at (never-assigned
// first, id as the stable tiebreak), truncated to the staffing requirement.
func (se *DefaultBookingEngine) selectCandidates(ctx context.Context, needed int, start, end time.Time) ([]models.Technician, error) {
	roster, err := se.Technicians.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	free, err := se.Availability.FilterFree(ctx, roster, start, end)
	if err != nil {
		return nil, err
	}

	sort.Slice(free, func(i, j int) bool {
		a, b := free[i], free[j]
		switch {
		case a.LastAssignedAt == nil && b.LastAssignedAt == nil:
			return a.ID < b.ID
		case a.LastAssignedAt == nil:
			return true
		case b.LastAssignedAt == nil:
			return false
		case a.LastAssignedAt.Equal(*b.LastAssignedAt):
			return a.ID < b.ID
		default:
			return a.LastAssignedAt.Before(*b.LastAssignedAt)
		}
	})

	if len(free) < needed {
		return nil, &InsufficientStaffError{Needed: needed, Available: len(free)}
	}
	return free[:needed], nil
}

// lockTechnicians acquires the per-technician advisory locks in sorted id
// order. On contention every lock taken so far is released and
// unavailabilityRepo.ErrLockHeld is returned.
func (se *DefaultBookingEngine) lockTechnicians(ctx context.Context, techs []models.Technician) ([]string, error) {
	keys := make([]string, 0, len(techs))
	for _, tech := range techs {
		keys = append(keys, technicianLockKey(tech.ID))
	}
	sort.Strings(keys)

	locked := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := se.Locks.Acquire(ctx, key, allocationLockTTL); err != nil {
			se.unlockTechnicians(ctx, locked)
			if err == unavailabilityRepo.ErrLockHeld {
				return nil, unavailabilityRepo.ErrLockHeld
			}
			return nil, fmt.Errorf("failed to acquire allocation lock: %w", err)
		}
		locked = append(locked, key)
	}
	return locked, nil
}

func (se *DefaultBookingEngine) unlockTechnicians(ctx context.Context, keys []string) {
	logger := utils.GetLogger()
	for _, key := range keys {
		if err := se.Locks.Release(ctx, key); err != nil {
			logger.Warn("failed to release allocation lock", zap.String("key", key), zap.Error(err))
		}
	}
}

func technicianLockKey(technicianID string) string {
	return "tech:" + technicianID
}

func (se *DefaultBookingEngine) notify(ctx context.Context, userType, userID, message string) {
	if se.Notifier == nil {
		return
	}
	if err := se.Notifier.Notify(ctx, userType, userID, message); err != nil {
		utils.GetLogger().Warn("failed to send notification",
			zap.String("userID", userID), zap.Error(err))
	}
}

func (se *DefaultBookingEngine) publish(ctx context.Context, eventType string, booking *models.Booking) {
	if se.Events == nil {
		return
	}
	if err := se.Events.Publish(ctx, eventType, booking.ID, booking.Status); err != nil {
		utils.GetLogger().Warn("failed to publish booking event",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}
}
