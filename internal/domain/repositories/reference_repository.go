package repositories

import (
	"context"

	"github.com/vetlink/vetlink-backend/internal/domain/entities"
)

// CityRepository defines the interface for city reference data
type CityRepository interface {
	Create(ctx context.Context, city *entities.City) error
	GetByID(ctx context.Context, id string) (*entities.City, error)
	List(ctx context.Context) ([]*entities.City, error)
	Update(ctx context.Context, city *entities.City) error
	Delete(ctx context.Context, id string) error
}

// CareTypeRepository defines the interface for care-type reference data
type CareTypeRepository interface {
	Create(ctx context.Context, careType *entities.CareType) error
	GetByID(ctx context.Context, id string) (*entities.CareType, error)
	List(ctx context.Context) ([]*entities.CareType, error)
	Update(ctx context.Context, careType *entities.CareType) error
	Delete(ctx context.Context, id string) error
}

// BreedRepository defines the interface for breed reference data
type BreedRepository interface {
	Create(ctx context.Context, breed *entities.Breed) error
	GetByID(ctx context.Context, id string) (*entities.Breed, error)
	List(ctx context.Context, species string) ([]*entities.Breed, error)
	Update(ctx context.Context, breed *entities.Breed) error
	Delete(ctx context.Context, id string) error
}

// SpecialisationRepository defines the interface for specialisation reference data
type SpecialisationRepository interface {
	Create(ctx context.Context, specialisation *entities.Specialisation) error
	GetByID(ctx context.Context, id string) (*entities.Specialisation, error)
	List(ctx context.Context) ([]*entities.Specialisation, error)
	Update(ctx context.Context, specialisation *entities.Specialisation) error
	Delete(ctx context.Context, id string) error
}
