package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

// ActivityLogAdapter implements the ActivityLogRepository interface
type ActivityLogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewActivityLogAdapter creates a new activity log adapter
func NewActivityLogAdapter(client *postgres.Client) repositories.ActivityLogRepository {
	return &ActivityLogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Record stores an activity entry
func (a *ActivityLogAdapter) Record(ctx context.Context, entry *entities.ActivityEntry) error {
	query, args, err := a.db.Insert("activity_log").Rows(goqu.Record{
		"id":         entry.ID,
		"user_id":    entry.UserID,
		"action":     entry.Action,
		"entity":     entry.Entity,
		"entity_id":  entry.EntityID,
		"detail":     entry.Detail,
		"created_at": entry.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to record activity entry", err)
	}
	return nil
}

// List retrieves activity entries, newest first
func (a *ActivityLogAdapter) List(ctx context.Context, filter repositories.ActivityLogFilter) ([]*entities.ActivityEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	ds := a.db.Select("id", "user_id", "action", "entity", "entity_id", "detail", "created_at").
		From("activity_log").
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(filter.Offset))
	if filter.UserID != "" {
		ds = ds.Where(goqu.Ex{"user_id": filter.UserID})
	}
	if filter.Action != "" {
		ds = ds.Where(goqu.Ex{"action": filter.Action})
	}
	if filter.Entity != "" {
		ds = ds.Where(goqu.Ex{"entity": filter.Entity})
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query activity entries", err)
	}
	defer rows.Close()

	entries := []*entities.ActivityEntry{}
	for rows.Next() {
		entry := &entities.ActivityEntry{}
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Action, &entry.Entity,
			&entry.EntityID, &entry.Detail, &entry.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan activity entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate activity entries", err)
	}
	return entries, nil
}

// ErrorLogAdapter implements the ErrorLogRepository interface
type ErrorLogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewErrorLogAdapter creates a new error log adapter
func NewErrorLogAdapter(client *postgres.Client) repositories.ErrorLogRepository {
	return &ErrorLogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Record stores an error entry
func (a *ErrorLogAdapter) Record(ctx context.Context, entry *entities.ErrorEntry) error {
	query, args, err := a.db.Insert("error_log").Rows(goqu.Record{
		"id":          entry.ID,
		"level":       entry.Level,
		"message":     entry.Message,
		"method":      entry.Method,
		"path":        entry.Path,
		"status_code": entry.StatusCode,
		"created_at":  entry.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to record error entry", err)
	}
	return nil
}

// List retrieves error entries, newest first
func (a *ErrorLogAdapter) List(ctx context.Context, filter repositories.ErrorLogFilter) ([]*entities.ErrorEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	ds := a.db.Select("id", "level", "message", "method", "path", "status_code", "created_at").
		From("error_log").
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(filter.Offset))
	if filter.Level != "" {
		ds = ds.Where(goqu.Ex{"level": filter.Level})
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query error entries", err)
	}
	defer rows.Close()

	entries := []*entities.ErrorEntry{}
	for rows.Next() {
		entry := &entities.ErrorEntry{}
		if err := rows.Scan(
			&entry.ID, &entry.Level, &entry.Message, &entry.Method,
			&entry.Path, &entry.StatusCode, &entry.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan error entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate error entries", err)
	}
	return entries, nil
}
