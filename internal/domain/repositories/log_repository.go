package repositories

import (
	"context"

	"github.com/vetlink/vetlink-backend/internal/domain/entities"
)

// ActivityLogFilter defines filters for listing activity entries
type ActivityLogFilter struct {
	UserID string
	Action string
	Entity string
	Limit  int
	Offset int
}

// ErrorLogFilter defines filters for listing error entries
type ErrorLogFilter struct {
	Level  string
	Limit  int
	Offset int
}

// ActivityLogRepository persists and lists activity entries
type ActivityLogRepository interface {
	// Record stores an activity entry
	Record(ctx context.Context, entry *entities.ActivityEntry) error

	// List retrieves activity entries, newest first
	List(ctx context.Context, filter ActivityLogFilter) ([]*entities.ActivityEntry, error)
}

// ErrorLogRepository persists and lists error entries
type ErrorLogRepository interface {
	// Record stores an error entry
	Record(ctx context.Context, entry *entities.ErrorEntry) error

	// List retrieves error entries, newest first
	List(ctx context.Context, filter ErrorLogFilter) ([]*entities.ErrorEntry, error)
}
