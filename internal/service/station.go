package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/repo"
)

const maxStationNameLen = 100

// StationService serves the station taxonomy to candidates and lets admins
// maintain it.
type StationService struct {
	repo repo.StationRepo
}

// NewStationService constructs a StationService.
func NewStationService(r repo.StationRepo) *StationService {
	return &StationService{repo: r}
}

func (s *StationService) ListCategories(ctx context.Context) ([]domain.StationCategory, error) {
	cs, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.StationService.ListCategories: %w", err)
	}
	return cs, nil
}

func (s *StationService) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]domain.StationSubcategory, error) {
	subs, err := s.repo.ListSubcategories(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("service.StationService.ListSubcategories: %w", err)
	}
	return subs, nil
}

// ListActiveStations is the candidate picker: inactive stations never appear.
func (s *StationService) ListActiveStations(ctx context.Context, subcategoryID *uuid.UUID) ([]domain.Station, error) {
	sts, err := s.repo.ListStations(ctx, subcategoryID, true)
	if err != nil {
		return nil, fmt.Errorf("service.StationService.ListActiveStations: %w", err)
	}
	return sts, nil
}

// ListAllStations includes inactive stations, for the admin console.
func (s *StationService) ListAllStations(ctx context.Context) ([]domain.Station, error) {
	sts, err := s.repo.ListStations(ctx, nil, false)
	if err != nil {
		return nil, fmt.Errorf("service.StationService.ListAllStations: %w", err)
	}
	return sts, nil
}

func (s *StationService) CreateCategory(ctx context.Context, name string) (domain.StationCategory, error) {
	name, err := stationName(name)
	if err != nil {
		return domain.StationCategory{}, err
	}
	c, err := s.repo.CreateCategory(ctx, name)
	if err != nil {
		return domain.StationCategory{}, fmt.Errorf("service.StationService.CreateCategory: %w", err)
	}
	return c, nil
}

func (s *StationService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (domain.StationCategory, error) {
	name, err := stationName(name)
	if err != nil {
		return domain.StationCategory{}, err
	}
	c, err := s.repo.UpdateCategory(ctx, id, name)
	if err != nil {
		return domain.StationCategory{}, fmt.Errorf("service.StationService.UpdateCategory: %w", err)
	}
	return c, nil
}

func (s *StationService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("service.StationService.DeleteCategory: %w", err)
	}
	return nil
}

func (s *StationService) CreateSubcategory(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error) {
	if err := validateSubcategory(&sc); err != nil {
		return domain.StationSubcategory{}, err
	}
	got, err := s.repo.CreateSubcategory(ctx, sc)
	if err != nil {
		return domain.StationSubcategory{}, fmt.Errorf("service.StationService.CreateSubcategory: %w", err)
	}
	return got, nil
}

func (s *StationService) UpdateSubcategory(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error) {
	if err := validateSubcategory(&sc); err != nil {
		return domain.StationSubcategory{}, err
	}
	got, err := s.repo.UpdateSubcategory(ctx, sc)
	if err != nil {
		return domain.StationSubcategory{}, fmt.Errorf("service.StationService.UpdateSubcategory: %w", err)
	}
	return got, nil
}

func (s *StationService) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteSubcategory(ctx, id); err != nil {
		return fmt.Errorf("service.StationService.DeleteSubcategory: %w", err)
	}
	return nil
}

func (s *StationService) CreateStation(ctx context.Context, st domain.Station) (domain.Station, error) {
	if err := validateStation(&st); err != nil {
		return domain.Station{}, err
	}
	got, err := s.repo.CreateStation(ctx, st)
	if err != nil {
		return domain.Station{}, fmt.Errorf("service.StationService.CreateStation: %w", err)
	}
	return got, nil
}

func (s *StationService) UpdateStation(ctx context.Context, st domain.Station) (domain.Station, error) {
	if err := validateStation(&st); err != nil {
		return domain.Station{}, err
	}
	got, err := s.repo.UpdateStation(ctx, st)
	if err != nil {
		return domain.Station{}, fmt.Errorf("service.StationService.UpdateStation: %w", err)
	}
	return got, nil
}

func (s *StationService) DeleteStation(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteStation(ctx, id); err != nil {
		return fmt.Errorf("service.StationService.DeleteStation: %w", err)
	}
	return nil
}

func stationName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxStationNameLen {
		return "", fmt.Errorf("%w: name exceeds %d characters", domain.ErrValidation, maxStationNameLen)
	}
	return name, nil
}

func validateSubcategory(sc *domain.StationSubcategory) error {
	name, err := stationName(sc.Name)
	if err != nil {
		return err
	}
	if sc.CategoryID == uuid.Nil {
		return fmt.Errorf("%w: category is required", domain.ErrValidation)
	}
	sc.Name = name
	return nil
}

func validateStation(st *domain.Station) error {
	name, err := stationName(st.Name)
	if err != nil {
		return err
	}
	if st.SubcategoryID == uuid.Nil {
		return fmt.Errorf("%w: subcategory is required", domain.ErrValidation)
	}
	st.Name = name
	return nil
}
