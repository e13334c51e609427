package technician

import (
	"context"
	"fmt"
	"time"

	"pestguard/models"
)

// Dashboard is the technician's landing summary.
type Dashboard struct {
	TodayBookings    []models.Booking                `json:"today_bookings"`
	UpcomingBookings []models.Booking                `json:"upcoming_bookings"`
	CompletedCount   int                             `json:"completed_count"`
	UpcomingLeaves   []models.UnavailabilityInterval `json:"upcoming_leaves"`
}

// Dashboard assembles today's jobs, future confirmed work, the completed
// total, and upcoming approved leave for one technician.
func (s *DefaultTechnicianService) Dashboard(ctx context.Context, technicianID string) (*Dashboard, error) {
	bookings, err := s.Bookings.ListByTechnician(ctx, technicianID)
	if err != nil {
		return nil, fmt.Errorf("failed to load technician bookings: %w", err)
	}

	now := s.now()
	y, m, d := now.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	dash := &Dashboard{
		TodayBookings:    []models.Booking{},
		UpcomingBookings: []models.Booking{},
		UpcomingLeaves:   []models.UnavailabilityInterval{},
	}
	for _, b := range bookings {
		switch b.Status {
		case models.BookingStatusCompleted:
			dash.CompletedCount++
		case models.BookingStatusConfirmed, models.BookingStatusPending:
			if !b.BookingDate.Before(dayStart) && b.BookingDate.Before(dayEnd) {
				dash.TodayBookings = append(dash.TodayBookings, b)
			} else if !b.BookingDate.Before(dayEnd) {
				dash.UpcomingBookings = append(dash.UpcomingBookings, b)
			}
		}
	}

	leaves, err := s.Unavail.ListByTechnician(ctx, technicianID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaves: %w", err)
	}
	for _, lv := range leaves {
		if lv.Status == models.UnavailabilityStatusApproved && lv.End.After(now) {
			dash.UpcomingLeaves = append(dash.UpcomingLeaves, lv)
		}
	}
	return dash, nil
}
