package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

// ReferenceService manages the lookup tables behind search filters and pet
// registration: cities, care types, breeds and specialisations.
type ReferenceService struct {
	cityRepo           repositories.CityRepository
	careTypeRepo       repositories.CareTypeRepository
	breedRepo          repositories.BreedRepository
	specialisationRepo repositories.SpecialisationRepository
}

// NewReferenceService creates a new reference service
func NewReferenceService(
	cityRepo repositories.CityRepository,
	careTypeRepo repositories.CareTypeRepository,
	breedRepo repositories.BreedRepository,
	specialisationRepo repositories.SpecialisationRepository,
) *ReferenceService {
	return &ReferenceService{
		cityRepo:           cityRepo,
		careTypeRepo:       careTypeRepo,
		breedRepo:          breedRepo,
		specialisationRepo: specialisationRepo,
	}
}

// Cities

func (s *ReferenceService) CreateCity(ctx context.Context, city *entities.City) error {
	if strings.TrimSpace(city.Name) == "" {
		return apperrors.NewValidationError("city name is required")
	}
	city.ID = uuid.New().String()
	if city.Slug == "" {
		city.Slug = slugify(city.Name)
	}
	now := time.Now()
	city.CreatedAt = now
	city.UpdatedAt = now
	return s.cityRepo.Create(ctx, city)
}

func (s *ReferenceService) ListCities(ctx context.Context) ([]*entities.City, error) {
	return s.cityRepo.List(ctx)
}

func (s *ReferenceService) UpdateCity(ctx context.Context, city *entities.City) error {
	if strings.TrimSpace(city.Name) == "" {
		return apperrors.NewValidationError("city name is required")
	}
	return s.cityRepo.Update(ctx, city)
}

func (s *ReferenceService) DeleteCity(ctx context.Context, id string) error {
	return s.cityRepo.Delete(ctx, id)
}

// Care types

func (s *ReferenceService) CreateCareType(ctx context.Context, careType *entities.CareType) error {
	if strings.TrimSpace(careType.Name) == "" {
		return apperrors.NewValidationError("care type name is required")
	}
	careType.ID = uuid.New().String()
	if careType.Slug == "" {
		careType.Slug = slugify(careType.Name)
	}
	now := time.Now()
	careType.CreatedAt = now
	careType.UpdatedAt = now
	return s.careTypeRepo.Create(ctx, careType)
}

func (s *ReferenceService) ListCareTypes(ctx context.Context) ([]*entities.CareType, error) {
	return s.careTypeRepo.List(ctx)
}

func (s *ReferenceService) UpdateCareType(ctx context.Context, careType *entities.CareType) error {
	if strings.TrimSpace(careType.Name) == "" {
		return apperrors.NewValidationError("care type name is required")
	}
	return s.careTypeRepo.Update(ctx, careType)
}

func (s *ReferenceService) DeleteCareType(ctx context.Context, id string) error {
	return s.careTypeRepo.Delete(ctx, id)
}

// Breeds

func (s *ReferenceService) CreateBreed(ctx context.Context, breed *entities.Breed) error {
	if strings.TrimSpace(breed.Name) == "" {
		return apperrors.NewValidationError("breed name is required")
	}
	if strings.TrimSpace(breed.Species) == "" {
		return apperrors.NewValidationError("breed species is required")
	}
	breed.ID = uuid.New().String()
	now := time.Now()
	breed.CreatedAt = now
	breed.UpdatedAt = now
	return s.breedRepo.Create(ctx, breed)
}

func (s *ReferenceService) ListBreeds(ctx context.Context, species string) ([]*entities.Breed, error) {
	return s.breedRepo.List(ctx, species)
}

func (s *ReferenceService) UpdateBreed(ctx context.Context, breed *entities.Breed) error {
	if strings.TrimSpace(breed.Name) == "" {
		return apperrors.NewValidationError("breed name is required")
	}
	return s.breedRepo.Update(ctx, breed)
}

func (s *ReferenceService) DeleteBreed(ctx context.Context, id string) error {
	return s.breedRepo.Delete(ctx, id)
}

// Specialisations

func (s *ReferenceService) CreateSpecialisation(ctx context.Context, specialisation *entities.Specialisation) error {
	if strings.TrimSpace(specialisation.Name) == "" {
		return apperrors.NewValidationError("specialisation name is required")
	}
	specialisation.ID = uuid.New().String()
	now := time.Now()
	specialisation.CreatedAt = now
	specialisation.UpdatedAt = now
	return s.specialisationRepo.Create(ctx, specialisation)
}

func (s *ReferenceService) ListSpecialisations(ctx context.Context) ([]*entities.Specialisation, error) {
	return s.specialisationRepo.List(ctx)
}

func (s *ReferenceService) UpdateSpecialisation(ctx context.Context, specialisation *entities.Specialisation) error {
	if strings.TrimSpace(specialisation.Name) == "" {
		return apperrors.NewValidationError("specialisation name is required")
	}
	return s.specialisationRepo.Update(ctx, specialisation)
}

func (s *ReferenceService) DeleteSpecialisation(ctx context.Context, id string) error {
	return s.specialisationRepo.Delete(ctx, id)
}
