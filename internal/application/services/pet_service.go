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

// PetService manages a client's pets. Ownership is enforced here: a client
// can only touch their own pets, admins can touch any.
type PetService struct {
	petRepo repositories.PetRepository
}

// NewPetService creates a new pet service
func NewPetService(petRepo repositories.PetRepository) *PetService {
	return &PetService{petRepo: petRepo}
}

// Create creates a pet owned by the given user
func (s *PetService) Create(ctx context.Context, ownerID string, pet *entities.Pet) error {
	if strings.TrimSpace(pet.Name) == "" {
		return apperrors.NewValidationError("pet name is required")
	}
	if strings.TrimSpace(pet.Species) == "" {
		return apperrors.NewValidationError("pet species is required")
	}

	pet.ID = uuid.New().String()
	pet.OwnerID = ownerID
	now := time.Now()
	pet.CreatedAt = now
	pet.UpdatedAt = now

	return s.petRepo.Create(ctx, pet)
}

// Get retrieves a pet, checking the caller may see it
func (s *PetService) Get(ctx context.Context, petID string, caller *Caller) (*entities.Pet, error) {
	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if err := caller.mayAccess(pet.OwnerID); err != nil {
		return nil, err
	}
	return pet, nil
}

// ListByOwner retrieves the caller's pets
func (s *PetService) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Pet, error) {
	return s.petRepo.ListByOwner(ctx, ownerID)
}

// Update updates a pet, checking the caller owns it
func (s *PetService) Update(ctx context.Context, pet *entities.Pet, caller *Caller) error {
	existing, err := s.petRepo.GetByID(ctx, pet.ID)
	if err != nil {
		return err
	}
	if err := caller.mayAccess(existing.OwnerID); err != nil {
		return err
	}
	if strings.TrimSpace(pet.Name) == "" {
		return apperrors.NewValidationError("pet name is required")
	}
	pet.OwnerID = existing.OwnerID
	return s.petRepo.Update(ctx, pet)
}

// Delete deletes a pet, checking the caller owns it
func (s *PetService) Delete(ctx context.Context, petID string, caller *Caller) error {
	existing, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	if err := caller.mayAccess(existing.OwnerID); err != nil {
		return err
	}
	return s.petRepo.Delete(ctx, petID)
}
