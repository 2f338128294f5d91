package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

var petColumns = []interface{}{
	"id", "owner_id", "name", "species", "breed_id", "birth_date",
	"notes", "created_at", "updated_at",
}

// PetAdapter implements the PetRepository interface
type PetAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPetAdapter creates a new pet adapter
func NewPetAdapter(client *postgres.Client) repositories.PetRepository {
	return &PetAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new pet
func (a *PetAdapter) Create(ctx context.Context, pet *entities.Pet) error {
	query, args, err := a.db.Insert("pets").Rows(goqu.Record{
		"id":         pet.ID,
		"owner_id":   pet.OwnerID,
		"name":       pet.Name,
		"species":    pet.Species,
		"breed_id":   pet.BreedID,
		"birth_date": pet.BirthDate,
		"notes":      pet.Notes,
		"created_at": pet.CreatedAt,
		"updated_at": pet.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create pet", err)
	}
	return nil
}

// GetByID retrieves a pet by ID
func (a *PetAdapter) GetByID(ctx context.Context, id string) (*entities.Pet, error) {
	query, args, err := a.db.Select(petColumns...).From("pets").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	pet := &entities.Pet{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&pet.ID, &pet.OwnerID, &pet.Name, &pet.Species, &pet.BreedID,
		&pet.BirthDate, &pet.Notes, &pet.CreatedAt, &pet.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("pet with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get pet", err)
	}
	return pet, nil
}

// ListByOwner retrieves the pets of a user
func (a *PetAdapter) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Pet, error) {
	query, args, err := a.db.Select(petColumns...).
		From("pets").
		Where(goqu.Ex{"owner_id": ownerID}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query pets", err)
	}
	defer rows.Close()

	pets := []*entities.Pet{}
	for rows.Next() {
		pet := &entities.Pet{}
		if err := rows.Scan(
			&pet.ID, &pet.OwnerID, &pet.Name, &pet.Species, &pet.BreedID,
			&pet.BirthDate, &pet.Notes, &pet.CreatedAt, &pet.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan pet", err)
		}
		pets = append(pets, pet)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate pets", err)
	}
	return pets, nil
}

// Update updates a pet
func (a *PetAdapter) Update(ctx context.Context, pet *entities.Pet) error {
	pet.UpdatedAt = time.Now()

	query, args, err := a.db.Update("pets").
		Set(goqu.Record{
			"name":       pet.Name,
			"species":    pet.Species,
			"breed_id":   pet.BreedID,
			"birth_date": pet.BirthDate,
			"notes":      pet.Notes,
			"updated_at": pet.UpdatedAt,
		}).
		Where(goqu.Ex{"id": pet.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("pet with id %s not found", pet.ID))
}

// Delete deletes a pet
func (a *PetAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("pets").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("pet with id %s not found", id))
}
