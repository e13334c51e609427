package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pestguard/models"
)

func newTestIndex(store *memStore) *AvailabilityIndex {
	return &AvailabilityIndex{
		Technicians: &fakeTechnicianRepo{store: store},
		Unavail:     &fakeUnavailabilityRepo{store: store},
	}
}

func TestIsFreeUnknownTechnician(t *testing.T) {
	idx := newTestIndex(newMemStore())

	_, err := idx.IsFree(context.Background(), "ghost", testDay, testDay.Add(time.Hour))

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "technician", notFound.Resource)
}

func TestIsFreeBlockingRules(t *testing.T) {
	store := newMemStore()
	seedTechnician(store, "tech-a", nil)
	dayStart, dayEnd := dayInterval(testDay)

	idx := newTestIndex(store)
	ctx := context.Background()

	free, err := idx.IsFree(ctx, "tech-a", dayStart, dayEnd)
	require.NoError(t, err)
	assert.True(t, free, "empty calendar is free")

	store.intervals["iv-1"] = models.UnavailabilityInterval{
		ID: "iv-1", TechnicianID: "tech-a",
		Start: dayStart, End: dayEnd,
		Reason: "vacation", Status: models.UnavailabilityStatusPending,
	}
	free, err = idx.IsFree(ctx, "tech-a", dayStart, dayEnd)
	require.NoError(t, err)
	assert.True(t, free, "pending leave does not block")

	store.intervals["iv-1"] = models.UnavailabilityInterval{
		ID: "iv-1", TechnicianID: "tech-a",
		Start: dayStart, End: dayEnd,
		Reason: "vacation", Status: models.UnavailabilityStatusApproved,
	}
	free, err = idx.IsFree(ctx, "tech-a", dayStart, dayEnd)
	require.NoError(t, err)
	assert.False(t, free, "approved leave blocks")

	store.intervals["iv-1"] = models.UnavailabilityInterval{
		ID: "iv-1", TechnicianID: "tech-a",
		Start: dayStart, End: dayEnd,
		Reason: models.UnavailabilityReasonJob, Status: models.UnavailabilityStatusApproved,
	}
	free, err = idx.IsFree(ctx, "tech-a", dayStart, dayEnd)
	require.NoError(t, err)
	assert.False(t, free, "job interval blocks")
}

func TestIsFreeHalfOpenBoundary(t *testing.T) {
	store := newMemStore()
	seedTechnician(store, "tech-a", nil)
	dayStart, dayEnd := dayInterval(testDay)
	store.intervals["iv-1"] = models.UnavailabilityInterval{
		ID: "iv-1", TechnicianID: "tech-a",
		Start: dayStart, End: dayEnd,
		Reason: models.UnavailabilityReasonJob, Status: models.UnavailabilityStatusApproved,
	}

	idx := newTestIndex(store)
	ctx := context.Background()

	// An interval starting exactly at the existing end does not overlap.
	free, err := idx.IsFree(ctx, "tech-a", dayEnd, dayEnd.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, free)

	// One ending exactly at the existing start does not either.
	free, err = idx.IsFree(ctx, "tech-a", dayStart.AddDate(0, 0, -1), dayStart)
	require.NoError(t, err)
	assert.True(t, free)

	// Any shared instant inside the window does.
	free, err = idx.IsFree(ctx, "tech-a", dayEnd.Add(-time.Minute), dayEnd.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, free)
}
