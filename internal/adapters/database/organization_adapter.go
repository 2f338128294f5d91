package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

// OrganizationAdapter implements the OrganizationRepository interface
type OrganizationAdapter struct {
	client *postgres.Client
}

// NewOrganizationAdapter creates a new organization adapter
func NewOrganizationAdapter(client *postgres.Client) repositories.OrganizationRepository {
	return &OrganizationAdapter{
		client: client,
	}
}

const organizationColumns = `
	id, name, slug, description, street, city, zip_code, country,
	phone_number, email, website, care_types, consultation_types,
	rating, review_count, is_active, created_at, updated_at
`

// Create creates a new organization
func (a *OrganizationAdapter) Create(ctx context.Context, organization *entities.Organization) error {
	query := `
		INSERT INTO organizations (
			id, name, slug, description, street, city, zip_code, country,
			phone_number, email, website, care_types, consultation_types,
			rating, review_count, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := a.client.DB().ExecContext(ctx, query,
		organization.ID,
		organization.Name,
		organization.Slug,
		organization.Description,
		organization.Address.Street,
		organization.Address.City,
		organization.Address.ZipCode,
		organization.Address.Country,
		organization.PhoneNumber,
		organization.Email,
		organization.Website,
		pq.Array(organization.CareTypes),
		pq.Array(organization.ConsultationTypes),
		organization.Rating,
		organization.ReviewCount,
		organization.IsActive,
		organization.CreatedAt,
		organization.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return apperrors.NewConflictError(fmt.Sprintf("organization with slug %s already exists", organization.Slug))
		}
		return apperrors.NewInternalError("failed to create organization", err)
	}

	return nil
}

// GetByID retrieves an organization by ID
func (a *OrganizationAdapter) GetByID(ctx context.Context, id string) (*entities.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM organizations WHERE id = $1 AND is_active = true`, organizationColumns)
	return a.scanOne(ctx, query, id)
}

// GetBySlug retrieves an organization by its URL slug
func (a *OrganizationAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM organizations WHERE slug = $1 AND is_active = true`, organizationColumns)
	return a.scanOne(ctx, query, slug)
}

func (a *OrganizationAdapter) scanOne(ctx context.Context, query string, arg interface{}) (*entities.Organization, error) {
	organization := &entities.Organization{}
	err := a.client.DB().QueryRowContext(ctx, query, arg).Scan(
		&organization.ID,
		&organization.Name,
		&organization.Slug,
		&organization.Description,
		&organization.Address.Street,
		&organization.Address.City,
		&organization.Address.ZipCode,
		&organization.Address.Country,
		&organization.PhoneNumber,
		&organization.Email,
		&organization.Website,
		pq.Array(&organization.CareTypes),
		pq.Array(&organization.ConsultationTypes),
		&organization.Rating,
		&organization.ReviewCount,
		&organization.IsActive,
		&organization.CreatedAt,
		&organization.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("organization %v not found", arg))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get organization", err)
	}

	return organization, nil
}

// Update updates an organization
func (a *OrganizationAdapter) Update(ctx context.Context, organization *entities.Organization) error {
	query := `
		UPDATE organizations SET
			name = $2, slug = $3, description = $4, street = $5, city = $6,
			zip_code = $7, country = $8, phone_number = $9, email = $10,
			website = $11, care_types = $12, consultation_types = $13,
			rating = $14, review_count = $15, is_active = $16, updated_at = $17
		WHERE id = $1
	`

	organization.UpdatedAt = time.Now()

	result, err := a.client.DB().ExecContext(ctx, query,
		organization.ID,
		organization.Name,
		organization.Slug,
		organization.Description,
		organization.Address.Street,
		organization.Address.City,
		organization.Address.ZipCode,
		organization.Address.Country,
		organization.PhoneNumber,
		organization.Email,
		organization.Website,
		pq.Array(organization.CareTypes),
		pq.Array(organization.ConsultationTypes),
		organization.Rating,
		organization.ReviewCount,
		organization.IsActive,
		organization.UpdatedAt,
	)

	if err != nil {
		return apperrors.NewInternalError("failed to update organization", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("organization with id %s not found", organization.ID))
	}

	return nil
}

// Delete deactivates an organization (soft delete)
func (a *OrganizationAdapter) Delete(ctx context.Context, id string) error {
	query := `UPDATE organizations SET is_active = false, updated_at = $2 WHERE id = $1`

	result, err := a.client.DB().ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return apperrors.NewInternalError("failed to delete organization", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("organization with id %s not found", id))
	}

	return nil
}

// List retrieves organizations with filters
func (a *OrganizationAdapter) List(ctx context.Context, filter repositories.OrganizationFilter) ([]*entities.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM organizations WHERE 1=1`, organizationColumns)
	args := []interface{}{}
	argPos := 1

	if filter.City != "" {
		query += fmt.Sprintf(" AND city = $%d", argPos)
		args = append(args, filter.City)
		argPos++
	}
	if filter.CareType != "" {
		query += fmt.Sprintf(" AND $%d = ANY(care_types)", argPos)
		args = append(args, filter.CareType)
		argPos++
	}
	if filter.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", argPos)
		args = append(args, *filter.IsActive)
		argPos++
	} else {
		query += " AND is_active = true"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 30
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	return a.scanMany(ctx, query, args...)
}

// Search searches organizations in Postgres. This is the fallback path when
// the search engine is unavailable.
func (a *OrganizationAdapter) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM organizations WHERE is_active = true`, organizationColumns)
	args := []interface{}{}
	argPos := 1

	if params.Query != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		args = append(args, "%"+params.Query+"%")
		argPos++
	}
	if params.City != "" {
		query += fmt.Sprintf(" AND city = $%d", argPos)
		args = append(args, params.City)
		argPos++
	}
	if params.CareType != "" {
		query += fmt.Sprintf(" AND $%d = ANY(care_types)", argPos)
		args = append(args, params.CareType)
		argPos++
	}
	if params.ConsultationType != "" {
		query += fmt.Sprintf(" AND $%d = ANY(consultation_types)", argPos)
		args = append(args, params.ConsultationType)
		argPos++
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 30
	}
	query += fmt.Sprintf(" ORDER BY rating DESC, review_count DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, params.Offset)

	return a.scanMany(ctx, query, args...)
}

func (a *OrganizationAdapter) scanMany(ctx context.Context, query string, args ...interface{}) ([]*entities.Organization, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query organizations", err)
	}
	defer rows.Close()

	organizations := []*entities.Organization{}
	for rows.Next() {
		organization := &entities.Organization{}
		err := rows.Scan(
			&organization.ID,
			&organization.Name,
			&organization.Slug,
			&organization.Description,
			&organization.Address.Street,
			&organization.Address.City,
			&organization.Address.ZipCode,
			&organization.Address.Country,
			&organization.PhoneNumber,
			&organization.Email,
			&organization.Website,
			pq.Array(&organization.CareTypes),
			pq.Array(&organization.ConsultationTypes),
			&organization.Rating,
			&organization.ReviewCount,
			&organization.IsActive,
			&organization.CreatedAt,
			&organization.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan organization", err)
		}
		organizations = append(organizations, organization)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate organizations", err)
	}

	return organizations, nil
}

// GetSchedule loads the schedule aggregate consumed by the availability
// resolver. Time-of-day columns are stored as minutes since midnight.
func (a *OrganizationAdapter) GetSchedule(ctx context.Context, organizationID string) (*entities.OrganizationSchedule, error) {
	schedule := &entities.OrganizationSchedule{OrganizationID: organizationID}

	hoursQuery := `
		SELECT id, organization_id, day_of_week, is_open, open_minutes, close_minutes
		FROM weekly_hours
		WHERE organization_id = $1
		ORDER BY day_of_week
	`
	rows, err := a.client.DB().QueryContext(ctx, hoursQuery, organizationID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query weekly hours", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry entities.WeeklyHours
		if err := rows.Scan(&entry.ID, &entry.OrganizationID, &entry.DayOfWeek, &entry.IsOpen, &entry.OpenTime, &entry.CloseTime); err != nil {
			return nil, apperrors.NewInternalError("failed to scan weekly hours", err)
		}
		schedule.WeeklyHours = append(schedule.WeeklyHours, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate weekly hours", err)
	}

	exceptionsQuery := `
		SELECT id, organization_id, date, start_minutes, end_minutes, is_available
		FROM exceptional_availability
		WHERE organization_id = $1 AND date >= CURRENT_DATE
		ORDER BY date, start_minutes
	`
	rows, err = a.client.DB().QueryContext(ctx, exceptionsQuery, organizationID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query exceptional availability", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry entities.ExceptionalAvailability
		if err := rows.Scan(&entry.ID, &entry.OrganizationID, &entry.Date, &entry.StartTime, &entry.EndTime, &entry.IsAvailable); err != nil {
			return nil, apperrors.NewInternalError("failed to scan exceptional availability", err)
		}
		schedule.Exceptions = append(schedule.Exceptions, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate exceptional availability", err)
	}

	unavailabilityQuery := `
		SELECT id, organization_id, kind, start_date, end_date, start_minutes, end_minutes
		FROM unavailability
		WHERE organization_id = $1 AND end_date >= CURRENT_DATE
		ORDER BY start_date
	`
	rows, err = a.client.DB().QueryContext(ctx, unavailabilityQuery, organizationID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query unavailability", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry entities.Unavailability
		var startMinutes, endMinutes sql.NullInt64
		if err := rows.Scan(&entry.ID, &entry.OrganizationID, &entry.Kind, &entry.StartDate, &entry.EndDate, &startMinutes, &endMinutes); err != nil {
			return nil, apperrors.NewInternalError("failed to scan unavailability", err)
		}
		if startMinutes.Valid {
			t := entities.TimeOfDay(startMinutes.Int64)
			entry.StartTime = &t
		}
		if endMinutes.Valid {
			t := entities.TimeOfDay(endMinutes.Int64)
			entry.EndTime = &t
		}
		schedule.Unavailabilities = append(schedule.Unavailabilities, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate unavailability", err)
	}

	consultationQuery := `
		SELECT id, organization_id, name, prices, duration_minutes, color
		FROM consultation_type_details
		WHERE organization_id = $1
		ORDER BY created_at
	`
	rows, err = a.client.DB().QueryContext(ctx, consultationQuery, organizationID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query consultation types", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry entities.ConsultationTypeDetail
		var prices pq.Float64Array
		if err := rows.Scan(&entry.ID, &entry.OrganizationID, &entry.Name, &prices, &entry.DurationMinutes, &entry.Color); err != nil {
			return nil, apperrors.NewInternalError("failed to scan consultation type", err)
		}
		entry.Prices = []float64(prices)
		schedule.ConsultationTypes = append(schedule.ConsultationTypes, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate consultation types", err)
	}

	return schedule, nil
}
