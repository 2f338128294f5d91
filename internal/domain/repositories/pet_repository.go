package repositories

import (
	"context"

	"github.com/vetlink/vetlink-backend/internal/domain/entities"
)

// PetRepository defines the interface for pet data operations
type PetRepository interface {
	// Create creates a new pet
	Create(ctx context.Context, pet *entities.Pet) error

	// GetByID retrieves a pet by ID
	GetByID(ctx context.Context, id string) (*entities.Pet, error)

	// ListByOwner retrieves the pets of a user
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Pet, error)

	// Update updates a pet
	Update(ctx context.Context, pet *entities.Pet) error

	// Delete deletes a pet
	Delete(ctx context.Context, id string) error
}
