package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

// CityAdapter implements the CityRepository interface
type CityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCityAdapter creates a new city adapter
func NewCityAdapter(client *postgres.Client) repositories.CityRepository {
	return &CityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new city
func (a *CityAdapter) Create(ctx context.Context, city *entities.City) error {
	record := goqu.Record{
		"id":         city.ID,
		"name":       city.Name,
		"zip_code":   city.ZipCode,
		"slug":       city.Slug,
		"created_at": city.CreatedAt,
		"updated_at": city.UpdatedAt,
	}

	query, args, err := a.db.Insert("cities").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("city %s already exists", city.Name))
		}
		return apperrors.NewInternalError("failed to create city", err)
	}
	return nil
}

// GetByID retrieves a city by ID
func (a *CityAdapter) GetByID(ctx context.Context, id string) (*entities.City, error) {
	query, args, err := a.db.Select("id", "name", "zip_code", "slug", "created_at", "updated_at").
		From("cities").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	city := &entities.City{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&city.ID, &city.Name, &city.ZipCode, &city.Slug, &city.CreatedAt, &city.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("city with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get city", err)
	}
	return city, nil
}

// List retrieves all cities ordered by name
func (a *CityAdapter) List(ctx context.Context) ([]*entities.City, error) {
	query, args, err := a.db.Select("id", "name", "zip_code", "slug", "created_at", "updated_at").
		From("cities").
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query cities", err)
	}
	defer rows.Close()

	cities := []*entities.City{}
	for rows.Next() {
		city := &entities.City{}
		if err := rows.Scan(&city.ID, &city.Name, &city.ZipCode, &city.Slug, &city.CreatedAt, &city.UpdatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan city", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate cities", err)
	}
	return cities, nil
}

// Update updates a city
func (a *CityAdapter) Update(ctx context.Context, city *entities.City) error {
	city.UpdatedAt = time.Now()

	query, args, err := a.db.Update("cities").
		Set(goqu.Record{
			"name":       city.Name,
			"zip_code":   city.ZipCode,
			"slug":       city.Slug,
			"updated_at": city.UpdatedAt,
		}).
		Where(goqu.Ex{"id": city.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("city with id %s not found", city.ID))
}

// Delete deletes a city
func (a *CityAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("cities").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("city with id %s not found", id))
}

// CareTypeAdapter implements the CareTypeRepository interface
type CareTypeAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCareTypeAdapter creates a new care type adapter
func NewCareTypeAdapter(client *postgres.Client) repositories.CareTypeRepository {
	return &CareTypeAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new care type
func (a *CareTypeAdapter) Create(ctx context.Context, careType *entities.CareType) error {
	query, args, err := a.db.Insert("care_types").Rows(goqu.Record{
		"id":         careType.ID,
		"name":       careType.Name,
		"slug":       careType.Slug,
		"created_at": careType.CreatedAt,
		"updated_at": careType.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("care type %s already exists", careType.Name))
		}
		return apperrors.NewInternalError("failed to create care type", err)
	}
	return nil
}

// GetByID retrieves a care type by ID
func (a *CareTypeAdapter) GetByID(ctx context.Context, id string) (*entities.CareType, error) {
	query, args, err := a.db.Select("id", "name", "slug", "created_at", "updated_at").
		From("care_types").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	careType := &entities.CareType{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&careType.ID, &careType.Name, &careType.Slug, &careType.CreatedAt, &careType.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("care type with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get care type", err)
	}
	return careType, nil
}

// List retrieves all care types ordered by name
func (a *CareTypeAdapter) List(ctx context.Context) ([]*entities.CareType, error) {
	query, args, err := a.db.Select("id", "name", "slug", "created_at", "updated_at").
		From("care_types").
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query care types", err)
	}
	defer rows.Close()

	careTypes := []*entities.CareType{}
	for rows.Next() {
		careType := &entities.CareType{}
		if err := rows.Scan(&careType.ID, &careType.Name, &careType.Slug, &careType.CreatedAt, &careType.UpdatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan care type", err)
		}
		careTypes = append(careTypes, careType)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate care types", err)
	}
	return careTypes, nil
}

// Update updates a care type
func (a *CareTypeAdapter) Update(ctx context.Context, careType *entities.CareType) error {
	careType.UpdatedAt = time.Now()

	query, args, err := a.db.Update("care_types").
		Set(goqu.Record{
			"name":       careType.Name,
			"slug":       careType.Slug,
			"updated_at": careType.UpdatedAt,
		}).
		Where(goqu.Ex{"id": careType.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("care type with id %s not found", careType.ID))
}

// Delete deletes a care type
func (a *CareTypeAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("care_types").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("care type with id %s not found", id))
}

// BreedAdapter implements the BreedRepository interface
type BreedAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBreedAdapter creates a new breed adapter
func NewBreedAdapter(client *postgres.Client) repositories.BreedRepository {
	return &BreedAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new breed
func (a *BreedAdapter) Create(ctx context.Context, breed *entities.Breed) error {
	query, args, err := a.db.Insert("breeds").Rows(goqu.Record{
		"id":         breed.ID,
		"name":       breed.Name,
		"species":    breed.Species,
		"created_at": breed.CreatedAt,
		"updated_at": breed.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("breed %s already exists for species %s", breed.Name, breed.Species))
		}
		return apperrors.NewInternalError("failed to create breed", err)
	}
	return nil
}

// GetByID retrieves a breed by ID
func (a *BreedAdapter) GetByID(ctx context.Context, id string) (*entities.Breed, error) {
	query, args, err := a.db.Select("id", "name", "species", "created_at", "updated_at").
		From("breeds").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	breed := &entities.Breed{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&breed.ID, &breed.Name, &breed.Species, &breed.CreatedAt, &breed.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("breed with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get breed", err)
	}
	return breed, nil
}

// List retrieves breeds, optionally filtered by species
func (a *BreedAdapter) List(ctx context.Context, species string) ([]*entities.Breed, error) {
	ds := a.db.Select("id", "name", "species", "created_at", "updated_at").
		From("breeds").
		Order(goqu.I("name").Asc())
	if species != "" {
		ds = ds.Where(goqu.Ex{"species": species})
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query breeds", err)
	}
	defer rows.Close()

	breeds := []*entities.Breed{}
	for rows.Next() {
		breed := &entities.Breed{}
		if err := rows.Scan(&breed.ID, &breed.Name, &breed.Species, &breed.CreatedAt, &breed.UpdatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan breed", err)
		}
		breeds = append(breeds, breed)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate breeds", err)
	}
	return breeds, nil
}

// Update updates a breed
func (a *BreedAdapter) Update(ctx context.Context, breed *entities.Breed) error {
	breed.UpdatedAt = time.Now()

	query, args, err := a.db.Update("breeds").
		Set(goqu.Record{
			"name":       breed.Name,
			"species":    breed.Species,
			"updated_at": breed.UpdatedAt,
		}).
		Where(goqu.Ex{"id": breed.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("breed with id %s not found", breed.ID))
}

// Delete deletes a breed
func (a *BreedAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("breeds").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("breed with id %s not found", id))
}

// SpecialisationAdapter implements the SpecialisationRepository interface
type SpecialisationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSpecialisationAdapter creates a new specialisation adapter
func NewSpecialisationAdapter(client *postgres.Client) repositories.SpecialisationRepository {
	return &SpecialisationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new specialisation
func (a *SpecialisationAdapter) Create(ctx context.Context, specialisation *entities.Specialisation) error {
	query, args, err := a.db.Insert("specialisations").Rows(goqu.Record{
		"id":         specialisation.ID,
		"name":       specialisation.Name,
		"created_at": specialisation.CreatedAt,
		"updated_at": specialisation.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("specialisation %s already exists", specialisation.Name))
		}
		return apperrors.NewInternalError("failed to create specialisation", err)
	}
	return nil
}

// GetByID retrieves a specialisation by ID
func (a *SpecialisationAdapter) GetByID(ctx context.Context, id string) (*entities.Specialisation, error) {
	query, args, err := a.db.Select("id", "name", "created_at", "updated_at").
		From("specialisations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	specialisation := &entities.Specialisation{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&specialisation.ID, &specialisation.Name, &specialisation.CreatedAt, &specialisation.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("specialisation with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get specialisation", err)
	}
	return specialisation, nil
}

// List retrieves all specialisations ordered by name
func (a *SpecialisationAdapter) List(ctx context.Context) ([]*entities.Specialisation, error) {
	query, args, err := a.db.Select("id", "name", "created_at", "updated_at").
		From("specialisations").
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query specialisations", err)
	}
	defer rows.Close()

	specialisations := []*entities.Specialisation{}
	for rows.Next() {
		specialisation := &entities.Specialisation{}
		if err := rows.Scan(&specialisation.ID, &specialisation.Name, &specialisation.CreatedAt, &specialisation.UpdatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan specialisation", err)
		}
		specialisations = append(specialisations, specialisation)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate specialisations", err)
	}
	return specialisations, nil
}

// Update updates a specialisation
func (a *SpecialisationAdapter) Update(ctx context.Context, specialisation *entities.Specialisation) error {
	specialisation.UpdatedAt = time.Now()

	query, args, err := a.db.Update("specialisations").
		Set(goqu.Record{
			"name":       specialisation.Name,
			"updated_at": specialisation.UpdatedAt,
		}).
		Where(goqu.Ex{"id": specialisation.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("specialisation with id %s not found", specialisation.ID))
}

// Delete deletes a specialisation
func (a *SpecialisationAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("specialisations").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("specialisation with id %s not found", id))
}

// execExpectingRow runs a statement that must affect exactly one row and maps
// zero affected rows to a not-found error.
func execExpectingRow(ctx context.Context, client *postgres.Client, query string, args []interface{}, notFoundMsg string) error {
	result, err := client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to execute statement", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code.Name() == "unique_violation"
}
