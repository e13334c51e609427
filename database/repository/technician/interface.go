package technicianRepo

import (
	"context"
	"errors"

	"pestguard/models"
)

// ErrNotFound is returned when no technician matches the given id.
var ErrNotFound = errors.New("technician not found")

// TechnicianRepository defines persistence operations for the roster.
// last_assigned_at is only written by the allocation transaction, never here.
type TechnicianRepository interface {
	Create(ctx context.Context, tech *models.Technician) error
	GetByID(ctx context.Context, id string) (*models.Technician, error)
	GetAll(ctx context.Context) ([]models.Technician, error)
	Update(ctx context.Context, tech *models.Technician) error
	Delete(ctx context.Context, id string) error
}
