package technician

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pestguard/models"
)

func TestCreateTechnicianStartsUnassigned(t *testing.T) {
	state := newMemState()
	svc := newTestService(state)

	stamp := leaveDay
	created, err := svc.CreateTechnician(context.Background(), &models.Technician{
		Name:           "Grace",
		LastAssignedAt: &stamp, // callers cannot pre-seed fairness
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Nil(t, created.LastAssignedAt)
}

func TestUpdateTechnicianPreservesFairnessStamp(t *testing.T) {
	state := newMemState()
	svc := newTestService(state)
	ctx := context.Background()

	created, err := svc.CreateTechnician(ctx, &models.Technician{Name: "Grace"})
	require.NoError(t, err)

	stamp := leaveDay.Add(-48 * time.Hour)
	stored := state.technicians[created.ID]
	stored.LastAssignedAt = &stamp
	state.technicians[created.ID] = stored

	err = svc.UpdateTechnician(ctx, &models.Technician{
		ID:   created.ID,
		Name: "Grace Hopper",
	})
	require.NoError(t, err)

	got := state.technicians[created.ID]
	assert.Equal(t, "Grace Hopper", got.Name)
	require.NotNil(t, got.LastAssignedAt)
	assert.True(t, got.LastAssignedAt.Equal(stamp))
}
