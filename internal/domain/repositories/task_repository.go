package repositories

import (
	"context"

	"github.com/vetlink/vetlink-backend/internal/domain/entities"
)

// TaskFilter defines filters for listing moderation tasks
type TaskFilter struct {
	Status entities.TaskStatus
	UserID string
	Limit  int
	Offset int
}

// TaskRepository defines the interface for moderation task operations
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *entities.Task) error

	// GetByID retrieves a task by ID
	GetByID(ctx context.Context, id string) (*entities.Task, error)

	// List retrieves tasks with filters, newest first
	List(ctx context.Context, filter TaskFilter) ([]*entities.Task, error)

	// Update updates a task's status and moderation fields
	Update(ctx context.Context, task *entities.Task) error
}
