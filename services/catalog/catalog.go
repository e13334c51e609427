package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogRepo "pestguard/database/repository/catalog"
	"pestguard/models"
	"pestguard/utils"
)

// CatalogService manages the bookable service catalog.
type CatalogService interface {
	Create(ctx context.Context, svc *models.Service) (*models.Service, error)
	Get(ctx context.Context, id string) (*models.Service, error)
	List(ctx context.Context) ([]models.Service, error)
	Update(ctx context.Context, svc *models.Service) error
	Delete(ctx context.Context, id string) error
}

// DefaultCatalogService implements CatalogService.
type DefaultCatalogService struct {
	Repo catalogRepo.CatalogRepository
}

func (s *DefaultCatalogService) Create(ctx context.Context, svc *models.Service) (*models.Service, error) {
	if svc.TechniciansNeeded < 1 {
		return nil, fmt.Errorf("service needs at least one technician, got %d", svc.TechniciansNeeded)
	}
	if svc.ID == "" {
		svc.ID = uuid.New().String()
	}
	if err := s.Repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	utils.GetLogger().Info("service created",
		zap.String("serviceID", svc.ID), zap.String("name", svc.Name))
	return svc, nil
}

func (s *DefaultCatalogService) Get(ctx context.Context, id string) (*models.Service, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultCatalogService) List(ctx context.Context) ([]models.Service, error) {
	return s.Repo.GetAll(ctx)
}

func (s *DefaultCatalogService) Update(ctx context.Context, svc *models.Service) error {
	if svc.TechniciansNeeded < 1 {
		return fmt.Errorf("service needs at least one technician, got %d", svc.TechniciansNeeded)
	}
	return s.Repo.Update(ctx, svc)
}

func (s *DefaultCatalogService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
