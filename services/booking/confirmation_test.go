package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pestguard/models"
)

// confirmedBooking seeds a single-technician booking already past payment.
func confirmedBooking(t *testing.T, store *memStore, eng *DefaultBookingEngine) *models.Booking {
	t.Helper()
	seedTechnician(store, "tech-a", nil)
	seedService(store, "svc-1", 1)
	booking := createTestBooking(t, eng, "user-1")
	require.NoError(t, eng.ConfirmBooking(context.Background(), booking.ID))
	return booking
}

func TestRequestCompletionIssuesCode(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, testDay)
	booking := confirmedBooking(t, store, eng)

	code, err := eng.RequestCompletion(context.Background(), booking.ID, "tech-a")
	require.NoError(t, err)
	assert.Len(t, code.Code, 6)
	assert.True(t, code.ExpiresAt.Equal(testDay.Add(5*time.Minute)))
	assert.False(t, code.Used)

	// Re-requesting replaces the stored code.
	again, err := eng.RequestCompletion(context.Background(), booking.ID, "tech-a")
	require.NoError(t, err)
	assert.Equal(t, again.Code, store.codes[booking.ID].Code)
}

func TestRequestCompletionGuards(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, testDay)
	booking := confirmedBooking(t, store, eng)

	_, err := eng.RequestCompletion(context.Background(), booking.ID, "tech-other")
	assert.ErrorIs(t, err, ErrNotAssigned)

	// Pending bookings have nothing to complete.
	seedTechnician(store, "tech-b", nil)
	pending := createTestBooking(t, eng, "user-2")
	_, err = eng.RequestCompletion(context.Background(), pending.ID, "tech-b")
	var transition *InvalidTransitionError
	assert.ErrorAs(t, err, &transition)
}

func TestVerifyCompletionLifecycle(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, testDay)
	booking := confirmedBooking(t, store, eng)
	ctx := context.Background()

	// Nothing issued yet.
	assert.ErrorIs(t, eng.VerifyCompletion(ctx, booking.ID, "tech-a", "000000"), ErrCodeNotIssued)

	code, err := eng.RequestCompletion(ctx, booking.ID, "tech-a")
	require.NoError(t, err)

	// Wrong digits.
	wrong := "000000"
	if code.Code == wrong {
		wrong = "111111"
	}
	assert.ErrorIs(t, eng.VerifyCompletion(ctx, booking.ID, "tech-a", wrong), ErrInvalidCode)

	// Unassigned technician cannot verify even with the right code.
	assert.ErrorIs(t, eng.VerifyCompletion(ctx, booking.ID, "tech-other", code.Code), ErrNotAssigned)

	require.NoError(t, eng.VerifyCompletion(ctx, booking.ID, "tech-a", code.Code))
	assert.Equal(t, models.BookingStatusCompleted, store.bookings[booking.ID].Status)
	assert.True(t, store.codes[booking.ID].Used)
}

func TestVerifyCompletionSingleUse(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, testDay)
	booking := confirmedBooking(t, store, eng)
	ctx := context.Background()

	code, err := eng.RequestCompletion(ctx, booking.ID, "tech-a")
	require.NoError(t, err)
	require.NoError(t, eng.VerifyCompletion(ctx, booking.ID, "tech-a", code.Code))

	// The booking is completed now, so the transition guard fires first;
	// reset it to confirmed to reach the code check.
	b := store.bookings[booking.ID]
	b.Status = models.BookingStatusConfirmed
	store.bookings[booking.ID] = b

	assert.ErrorIs(t, eng.VerifyCompletion(ctx, booking.ID, "tech-a", code.Code), ErrCodeAlreadyUsed)
}

func TestVerifyCompletionSurvivesCodeConsumeFailure(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, testDay)
	booking := confirmedBooking(t, store, eng)
	ctx := context.Background()

	code, err := eng.RequestCompletion(ctx, booking.ID, "tech-a")
	require.NoError(t, err)

	// The booking completes even when consuming the code fails afterwards.
	store.markUsedErr = errors.New("write timeout")
	require.NoError(t, eng.VerifyCompletion(ctx, booking.ID, "tech-a", code.Code))
	assert.Equal(t, models.BookingStatusCompleted, store.bookings[booking.ID].Status)
	assert.False(t, store.codes[booking.ID].Used)

	// The unspent code cannot replay: the transition guard fires first.
	var transition *InvalidTransitionError
	assert.ErrorAs(t, eng.VerifyCompletion(ctx, booking.ID, "tech-a", code.Code), &transition)
}

func TestVerifyCompletionExpiry(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, testDay)
	booking := confirmedBooking(t, store, eng)
	ctx := context.Background()

	code, err := eng.RequestCompletion(ctx, booking.ID, "tech-a")
	require.NoError(t, err)

	eng.Now = func() time.Time { return testDay.Add(5*time.Minute + time.Second) }
	assert.ErrorIs(t, eng.VerifyCompletion(ctx, booking.ID, "tech-a", code.Code), ErrCodeExpired)

	// Expiry does not consume the code's used flag.
	assert.False(t, store.codes[booking.ID].Used)
	assert.Equal(t, models.BookingStatusConfirmed, store.bookings[booking.ID].Status)
}
