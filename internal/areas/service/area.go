package service

import (
	"context"
	"errors"

	areaserrors "festas/internal/areas/errors"
	"festas/internal/areas/repository"
	"festas/pkg/config"
	apperrors "festas/pkg/errors"
	"festas/pkg/model"
)

type AreaService interface {
	Get(ctx context.Context, id string) (*model.Area, error)
	List(ctx context.Context) ([]*model.Area, error)
	// Seed guarantees the default area exists so a fresh deployment is
	// bookable without manual setup.
	Seed(ctx context.Context) error
}

type areaService struct {
	repo repository.AreaRepository
	cfg  *config.Config
}

func NewAreaService(repo repository.AreaRepository, cfg *config.Config) AreaService {
	return &areaService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *areaService) Get(ctx context.Context, id string) (*model.Area, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Area ID cannot be empty")
	}

	area, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, areaserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Area", id)
		}
		return nil, apperrors.Internal("Failed to retrieve area", err)
	}
	return area, nil
}

func (s *areaService) List(ctx context.Context) ([]*model.Area, error) {
	areas, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list areas", "error", err)
		return nil, apperrors.Internal("Failed to retrieve areas", err)
	}
	return areas, nil
}

func (s *areaService) Seed(ctx context.Context) error {
	area := &model.Area{
		ID:   s.cfg.DefaultAreaID,
		Name: s.cfg.DefaultAreaName,
	}
	if err := s.repo.Upsert(ctx, area); err != nil {
		return err
	}
	s.cfg.Log.Info("Default area seeded", "area_id", area.ID, "name", area.Name)
	return nil
}
