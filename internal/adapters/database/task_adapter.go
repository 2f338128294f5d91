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

var taskColumns = []interface{}{
	"id", "user_id", "type", "payload", "status", "moderator_id",
	"moderator_note", "created_at", "updated_at",
}

// TaskAdapter implements the TaskRepository interface
type TaskAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTaskAdapter creates a new task adapter
func NewTaskAdapter(client *postgres.Client) repositories.TaskRepository {
	return &TaskAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new task
func (a *TaskAdapter) Create(ctx context.Context, task *entities.Task) error {
	query, args, err := a.db.Insert("tasks").Rows(goqu.Record{
		"id":             task.ID,
		"user_id":        task.UserID,
		"type":           task.Type,
		"payload":        []byte(task.Payload),
		"status":         task.Status,
		"moderator_note": task.ModeratorNote,
		"created_at":     task.CreatedAt,
		"updated_at":     task.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create task", err)
	}
	return nil
}

// GetByID retrieves a task by ID
func (a *TaskAdapter) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	query, args, err := a.db.Select(taskColumns...).From("tasks").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	task := &entities.Task{}
	var payload []byte
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&task.ID, &task.UserID, &task.Type, &payload, &task.Status,
		&task.ModeratorID, &task.ModeratorNote, &task.CreatedAt, &task.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("task with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get task", err)
	}
	task.Payload = payload
	return task, nil
}

// List retrieves tasks with filters, newest first
func (a *TaskAdapter) List(ctx context.Context, filter repositories.TaskFilter) ([]*entities.Task, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	ds := a.db.Select(taskColumns...).
		From("tasks").
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(filter.Offset))
	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": filter.Status})
	}
	if filter.UserID != "" {
		ds = ds.Where(goqu.Ex{"user_id": filter.UserID})
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query tasks", err)
	}
	defer rows.Close()

	tasks := []*entities.Task{}
	for rows.Next() {
		task := &entities.Task{}
		var payload []byte
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Type, &payload, &task.Status,
			&task.ModeratorID, &task.ModeratorNote, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan task", err)
		}
		task.Payload = payload
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate tasks", err)
	}
	return tasks, nil
}

// Update updates a task's status and moderation fields
func (a *TaskAdapter) Update(ctx context.Context, task *entities.Task) error {
	task.UpdatedAt = time.Now()

	query, args, err := a.db.Update("tasks").
		Set(goqu.Record{
			"status":         task.Status,
			"moderator_id":   task.ModeratorID,
			"moderator_note": task.ModeratorNote,
			"updated_at":     task.UpdatedAt,
		}).
		Where(goqu.Ex{"id": task.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("task with id %s not found", task.ID))
}
