package technician

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pestguard/models"
)

func TestDashboardBuckets(t *testing.T) {
	state := newMemState()
	svc := newTestService(state)

	state.bookings["bk-today"] = models.Booking{
		ID: "bk-today", Status: models.BookingStatusConfirmed,
		BookingDate: leaveDay.Add(10 * time.Hour),
	}
	state.bookings["bk-future"] = models.Booking{
		ID: "bk-future", Status: models.BookingStatusConfirmed,
		BookingDate: leaveDay.AddDate(0, 0, 3),
	}
	state.bookings["bk-done"] = models.Booking{
		ID: "bk-done", Status: models.BookingStatusCompleted,
		BookingDate: leaveDay.AddDate(0, 0, -7),
	}
	state.bookings["bk-cancelled"] = models.Booking{
		ID: "bk-cancelled", Status: models.BookingStatusCancelled,
		BookingDate: leaveDay.Add(10 * time.Hour),
	}

	state.intervals["iv-approved"] = models.UnavailabilityInterval{
		ID: "iv-approved", TechnicianID: "tech-a",
		Start: leaveDay.AddDate(0, 0, 10), End: leaveDay.AddDate(0, 0, 12),
		Reason: "vacation", Status: models.UnavailabilityStatusApproved,
	}
	state.intervals["iv-past"] = models.UnavailabilityInterval{
		ID: "iv-past", TechnicianID: "tech-a",
		Start: leaveDay.AddDate(0, 0, -12), End: leaveDay.AddDate(0, 0, -10),
		Reason: "vacation", Status: models.UnavailabilityStatusApproved,
	}
	state.intervals["iv-pending"] = models.UnavailabilityInterval{
		ID: "iv-pending", TechnicianID: "tech-a",
		Start: leaveDay.AddDate(0, 0, 20), End: leaveDay.AddDate(0, 0, 21),
		Reason: "vacation", Status: models.UnavailabilityStatusPending,
	}

	dash, err := svc.Dashboard(context.Background(), "tech-a")
	require.NoError(t, err)

	require.Len(t, dash.TodayBookings, 1)
	assert.Equal(t, "bk-today", dash.TodayBookings[0].ID)
	require.Len(t, dash.UpcomingBookings, 1)
	assert.Equal(t, "bk-future", dash.UpcomingBookings[0].ID)
	assert.Equal(t, 1, dash.CompletedCount)

	require.Len(t, dash.UpcomingLeaves, 1)
	assert.Equal(t, "iv-approved", dash.UpcomingLeaves[0].ID)
}
