package booking

import (
	"context"
	"fmt"
	"time"

	technicianRepo "pestguard/database/repository/technician"
	unavailabilityRepo "pestguard/database/repository/unavailability"
	"pestguard/models"
)

// AvailabilityIndex answers whether a technician is free on a proposed
// half-open interval. Read-only; a technician is free iff no job interval
// and no approved leave overlaps the proposal.
type AvailabilityIndex struct {
	Technicians technicianRepo.TechnicianRepository
	Unavail     unavailabilityRepo.UnavailabilityRepository
}

// IsFree reports whether the technician has no blocking interval
// overlapping [start, end). Unknown technicians yield a NotFoundError.
func (ai *AvailabilityIndex) IsFree(ctx context.Context, technicianID string, start, end time.Time) (bool, error) {
	if _, err := ai.Technicians.GetByID(ctx, technicianID); err != nil {
		if err == technicianRepo.ErrNotFound {
			return false, &NotFoundError{Resource: "technician", ID: technicianID}
		}
		return false, err
	}

	blocking, err := ai.Unavail.FindBlocking(ctx, technicianID, start, end)
	if err != nil {
		return false, err
	}
	return len(blocking) == 0, nil
}

// FilterFree narrows a roster to the technicians with no blocking interval
// overlapping [start, end), preserving roster order.
func (ai *AvailabilityIndex) FilterFree(ctx context.Context, roster []models.Technician, start, end time.Time) ([]models.Technician, error) {
	free := make([]models.Technician, 0, len(roster))
	for _, tech := range roster {
		blocking, err := ai.Unavail.FindBlocking(ctx, tech.ID, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to check availability for technician %s: %w", tech.ID, err)
		}
		if len(blocking) == 0 {
			free = append(free, tech)
		}
	}
	return free, nil
}

// dayInterval widens a booking timestamp to the technician's full calendar
// day, half-open so back-to-back days do not collide. The catalog carries
// duration_minutes, but the reserved hold stays day-granular.
func dayInterval(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 0, 1)
	return start, end
}
