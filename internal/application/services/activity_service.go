package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/observability"
)

// ActivityService records API mutations and surfaced errors for the admin
// dashboards. Recording is best-effort: a failed write is logged and never
// propagated to the request that triggered it.
type ActivityService struct {
	activityRepo repositories.ActivityLogRepository
	errorRepo    repositories.ErrorLogRepository
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo repositories.ActivityLogRepository, errorRepo repositories.ErrorLogRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		errorRepo:    errorRepo,
	}
}

// RecordActivity stores an activity entry
func (s *ActivityService) RecordActivity(ctx context.Context, userID, action, entity, entityID, detail string) {
	entry := &entities.ActivityEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	if err := s.activityRepo.Record(ctx, entry); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("action", action).
			Str("entity", entity).
			Msg("Failed to record activity entry")
	}
}

// RecordError stores an error entry
func (s *ActivityService) RecordError(ctx context.Context, level, message, method, path string, statusCode int) {
	entry := &entities.ErrorEntry{
		ID:         uuid.New().String(),
		Level:      level,
		Message:    message,
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		CreatedAt:  time.Now(),
	}
	if err := s.errorRepo.Record(ctx, entry); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("path", path).
			Msg("Failed to record error entry")
	}
}

// ListActivity retrieves activity entries, newest first
func (s *ActivityService) ListActivity(ctx context.Context, filter repositories.ActivityLogFilter) ([]*entities.ActivityEntry, error) {
	return s.activityRepo.List(ctx, filter)
}

// ListErrors retrieves error entries, newest first
func (s *ActivityService) ListErrors(ctx context.Context, filter repositories.ErrorLogFilter) ([]*entities.ErrorEntry, error) {
	return s.errorRepo.List(ctx, filter)
}
