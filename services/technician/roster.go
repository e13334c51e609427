package technician

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pestguard/models"
	"pestguard/utils"
)

// CreateTechnician adds a technician to the roster. A fresh hire has no
// assignment history, so the fairness ranking picks them up first.
func (s *DefaultTechnicianService) CreateTechnician(ctx context.Context, tech *models.Technician) (*models.Technician, error) {
	if tech.ID == "" {
		tech.ID = uuid.New().String()
	}
	tech.LastAssignedAt = nil
	tech.CreatedAt = time.Now()
	if err := s.Technicians.Create(ctx, tech); err != nil {
		return nil, fmt.Errorf("failed to create technician: %w", err)
	}
	utils.GetLogger().Info("technician added to roster",
		zap.String("technicianID", tech.ID), zap.String("name", tech.Name))
	return tech, nil
}

func (s *DefaultTechnicianService) GetTechnician(ctx context.Context, id string) (*models.Technician, error) {
	return s.Technicians.GetByID(ctx, id)
}

func (s *DefaultTechnicianService) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	return s.Technicians.GetAll(ctx)
}

// UpdateTechnician edits roster fields. The fairness stamp belongs to the
// allocator and is preserved from the stored record.
func (s *DefaultTechnicianService) UpdateTechnician(ctx context.Context, tech *models.Technician) error {
	current, err := s.Technicians.GetByID(ctx, tech.ID)
	if err != nil {
		return err
	}
	tech.LastAssignedAt = current.LastAssignedAt
	tech.CreatedAt = current.CreatedAt
	return s.Technicians.Update(ctx, tech)
}

func (s *DefaultTechnicianService) DeleteTechnician(ctx context.Context, id string) error {
	return s.Technicians.Delete(ctx, id)
}
