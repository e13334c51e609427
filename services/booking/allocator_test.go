package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pestguard/models"
)

var testDay = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func seedTechnician(store *memStore, id string, lastAssigned *time.Time) {
	store.technicians[id] = models.Technician{
		ID:             id,
		Name:           "Tech " + id,
		LastAssignedAt: lastAssigned,
	}
}

func seedService(store *memStore, id string, needed int) {
	store.services[id] = models.Service{
		ID:                id,
		Name:              "General Extermination",
		TechniciansNeeded: needed,
		Price:             120,
	}
}

func TestCreateBookingAssignsLeastRecentlyUsed(t *testing.T) {
	store := newMemStore()
	old := testDay.AddDate(0, 0, -30)
	recent := testDay.AddDate(0, 0, -1)
	seedTechnician(store, "tech-a", &old)
	seedTechnician(store, "tech-b", nil)
	seedTechnician(store, "tech-c", &recent)
	seedService(store, "svc-1", 2)

	eng := newTestEngine(store, testDay)
	booking, err := eng.CreateBooking(context.Background(), CreateBookingRequest{
		UserID:    "user-1",
		ServiceID: "svc-1",
		Date:      testDay,
	})
	require.NoError(t, err)
	require.NotNil(t, booking)
	assert.Equal(t, models.BookingStatusPending, booking.Status)

	assigns := store.assignments[booking.ID]
	require.Len(t, assigns, 2)
	got := map[string]bool{}
	for _, a := range assigns {
		got[a.TechnicianID] = true
	}
	assert.True(t, got["tech-b"], "never-assigned technician goes first")
	assert.True(t, got["tech-a"], "oldest assignment goes next")
	assert.False(t, got["tech-c"])

	// One full-day job interval per assignment, and the fairness stamp moved.
	assert.Len(t, store.intervals, 2)
	for _, iv := range store.intervals {
		assert.Equal(t, models.UnavailabilityReasonJob, iv.Reason)
		assert.Equal(t, booking.ID, iv.BookingID)
		assert.Equal(t, 24*time.Hour, iv.End.Sub(iv.Start))
	}
	require.NotNil(t, store.technicians["tech-b"].LastAssignedAt)
	assert.True(t, store.technicians["tech-b"].LastAssignedAt.Equal(testDay))
}

func TestCreateBookingInsufficientStaff(t *testing.T) {
	store := newMemStore()
	seedTechnician(store, "tech-a", nil)
	seedTechnician(store, "tech-b", nil)
	seedService(store, "svc-1", 3)

	eng := newTestEngine(store, testDay)
	_, err := eng.CreateBooking(context.Background(), CreateBookingRequest{
		UserID:    "user-1",
		ServiceID: "svc-1",
		Date:      testDay,
	})

	var insufficient *InsufficientStaffError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Needed)
	assert.Equal(t, 2, insufficient.Available)

	// No partial state.
	assert.Empty(t, store.bookings)
	assert.Empty(t, store.assignments)
	assert.Empty(t, store.intervals)
}

func TestCreateBookingSkipsCommittedTechnicians(t *testing.T) {
	store := newMemStore()
	seedTechnician(store, "tech-job", nil)
	seedTechnician(store, "tech-leave", nil)
	seedTechnician(store, "tech-pending", nil)
	seedService(store, "svc-1", 1)

	dayStart, dayEnd := dayInterval(testDay)
	store.intervals["iv-job"] = models.UnavailabilityInterval{
		ID: "iv-job", TechnicianID: "tech-job",
		Start: dayStart, End: dayEnd,
		Reason: models.UnavailabilityReasonJob, Status: models.UnavailabilityStatusApproved,
	}
	store.intervals["iv-leave"] = models.UnavailabilityInterval{
		ID: "iv-leave", TechnicianID: "tech-leave",
		Start: dayStart, End: dayEnd,
		Reason: "vacation", Status: models.UnavailabilityStatusApproved,
	}
	store.intervals["iv-pending"] = models.UnavailabilityInterval{
		ID: "iv-pending", TechnicianID: "tech-pending",
		Start: dayStart, End: dayEnd,
		Reason: "vacation", Status: models.UnavailabilityStatusPending,
	}

	eng := newTestEngine(store, testDay)
	booking, err := eng.CreateBooking(context.Background(), CreateBookingRequest{
		UserID:    "user-1",
		ServiceID: "svc-1",
		Date:      testDay,
	})
	require.NoError(t, err)

	// Pending leave does not block allocation yet.
	assigns := store.assignments[booking.ID]
	require.Len(t, assigns, 1)
	assert.Equal(t, "tech-pending", assigns[0].TechnicianID)
}

func TestCreateBookingIdempotentPerBookingID(t *testing.T) {
	store := newMemStore()
	seedTechnician(store, "tech-a", nil)
	seedService(store, "svc-1", 1)

	eng := newTestEngine(store, testDay)
	req := CreateBookingRequest{
		BookingID: "bk-1",
		UserID:    "user-1",
		ServiceID: "svc-1",
		Date:      testDay,
	}
	first, err := eng.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	second, err := eng.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.assignments["bk-1"], 1)
	assert.Len(t, store.intervals, 1)
}

func TestCreateBookingUnknownService(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, testDay)

	_, err := eng.CreateBooking(context.Background(), CreateBookingRequest{
		UserID:    "user-1",
		ServiceID: "missing",
		Date:      testDay,
	})

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "service", notFound.Resource)
}

func TestCreateBookingBackToBackDays(t *testing.T) {
	store := newMemStore()
	seedTechnician(store, "tech-a", nil)
	seedService(store, "svc-1", 1)

	eng := newTestEngine(store, testDay)
	_, err := eng.CreateBooking(context.Background(), CreateBookingRequest{
		UserID: "user-1", ServiceID: "svc-1", Date: testDay,
	})
	require.NoError(t, err)

	// The day interval is half-open, so the next day is free.
	_, err = eng.CreateBooking(context.Background(), CreateBookingRequest{
		UserID: "user-2", ServiceID: "svc-1", Date: testDay.AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	// Same day again is not.
	_, err = eng.CreateBooking(context.Background(), CreateBookingRequest{
		UserID: "user-3", ServiceID: "svc-1", Date: testDay,
	})
	var insufficient *InsufficientStaffError
	require.ErrorAs(t, err, &insufficient)
}

func TestConcurrentAllocationNeverDoubleBooks(t *testing.T) {
	store := newMemStore()
	seedTechnician(store, "tech-a", nil)
	seedService(store, "svc-1", 1)

	eng := newTestEngine(store, testDay)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.CreateBooking(context.Background(), CreateBookingRequest{
				UserID:    "user-1",
				ServiceID: "svc-1",
				Date:      testDay,
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var insufficient *InsufficientStaffError
		ok := errors.As(err, &insufficient) || errors.Is(err, ErrAllocationContention)
		assert.True(t, ok, "unexpected error: %v", err)
	}
	assert.LessOrEqual(t, successes, 1, "a single technician must never be double-booked")
	assert.LessOrEqual(t, len(store.intervals), 1)
}
