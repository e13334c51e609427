package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pestguard/models"
)

func createTestBooking(t *testing.T, eng *DefaultBookingEngine, userID string) *models.Booking {
	t.Helper()
	booking, err := eng.CreateBooking(context.Background(), CreateBookingRequest{
		UserID:    userID,
		ServiceID: "svc-1",
		Date:      testDay,
	})
	require.NoError(t, err)
	return booking
}

func TestConfirmBookingTransitions(t *testing.T) {
	store := newMemStore()
	seedTechnician(store, "tech-a", nil)
	seedService(store, "svc-1", 1)
	eng := newTestEngine(store, testDay)
	ctx := context.Background()

	booking := createTestBooking(t, eng, "user-1")

	require.NoError(t, eng.ConfirmBooking(ctx, booking.ID))
	assert.Equal(t, models.BookingStatusConfirmed, store.bookings[booking.ID].Status)

	// Confirming twice is rejected.
	err := eng.ConfirmBooking(ctx, booking.ID)
	var transition *InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, models.BookingStatusConfirmed, transition.From)
}

func TestConfirmBookingUnknown(t *testing.T) {
	eng := newTestEngine(newMemStore(), testDay)

	err := eng.ConfirmBooking(context.Background(), "ghost")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "booking", notFound.Resource)
}

func TestCancelBookingReleasesTechnicians(t *testing.T) {
	store := newMemStore()
	seedTechnician(store, "tech-a", nil)
	seedService(store, "svc-1", 1)
	eng := newTestEngine(store, testDay)
	ctx := context.Background()

	booking := createTestBooking(t, eng, "user-1")
	require.Len(t, store.intervals, 1)

	// The only technician is committed, so a second booking cannot land.
	_, err := eng.CreateBooking(ctx, CreateBookingRequest{
		UserID: "user-2", ServiceID: "svc-1", Date: testDay,
	})
	var insufficient *InsufficientStaffError
	require.ErrorAs(t, err, &insufficient)

	require.NoError(t, eng.CancelBooking(ctx, booking.ID))
	assert.Equal(t, models.BookingStatusCancelled, store.bookings[booking.ID].Status)
	assert.Empty(t, store.intervals, "job intervals are deleted on cancellation")

	// The slot is open again.
	_, err = eng.CreateBooking(ctx, CreateBookingRequest{
		UserID: "user-2", ServiceID: "svc-1", Date: testDay,
	})
	require.NoError(t, err)
}

func TestCancelBookingTerminalStates(t *testing.T) {
	store := newMemStore()
	seedTechnician(store, "tech-a", nil)
	seedService(store, "svc-1", 1)
	eng := newTestEngine(store, testDay)
	ctx := context.Background()

	booking := createTestBooking(t, eng, "user-1")
	require.NoError(t, eng.CancelBooking(ctx, booking.ID))

	var transition *InvalidTransitionError
	require.ErrorAs(t, eng.CancelBooking(ctx, booking.ID), &transition)

	completed := createTestBooking(t, eng, "user-2")
	require.NoError(t, eng.ConfirmBooking(ctx, completed.ID))
	b := store.bookings[completed.ID]
	b.Status = models.BookingStatusCompleted
	store.bookings[completed.ID] = b

	require.ErrorAs(t, eng.CancelBooking(ctx, completed.ID), &transition)
}

func TestVerifyPaymentConfirmsBooking(t *testing.T) {
	store := newMemStore()
	seedTechnician(store, "tech-a", nil)
	seedService(store, "svc-1", 1)
	eng := newTestEngine(store, testDay)
	ctx := context.Background()

	booking := createTestBooking(t, eng, "user-1")

	require.NoError(t, eng.VerifyPayment(ctx, booking.ID, "pi_123", 120))
	assert.Equal(t, models.BookingStatusConfirmed, store.bookings[booking.ID].Status)
	require.Len(t, store.payments, 1)
	assert.Equal(t, "pi_123", store.payments[0].PaymentID)
	assert.Equal(t, 120.0, store.payments[0].Amount)

	// A replayed callback cannot re-confirm.
	var transition *InvalidTransitionError
	require.ErrorAs(t, eng.VerifyPayment(ctx, booking.ID, "pi_123", 120), &transition)
}
