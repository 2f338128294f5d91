package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

// TaskService handles user-submitted moderation tasks and their admin review
type TaskService struct {
	taskRepo repositories.TaskRepository
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo repositories.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// Submit creates a pending task on behalf of a user
func (s *TaskService) Submit(ctx context.Context, userID, taskType string, payload json.RawMessage) (*entities.Task, error) {
	if strings.TrimSpace(taskType) == "" {
		return nil, apperrors.NewValidationError("task type is required")
	}
	if len(payload) == 0 || !json.Valid(payload) {
		return nil, apperrors.NewValidationError("task payload must be valid JSON")
	}

	now := time.Now()
	task := &entities.Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      taskType,
		Payload:   payload,
		Status:    entities.TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Get retrieves a task; clients only see their own submissions
func (s *TaskService) Get(ctx context.Context, taskID string, caller *Caller) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := caller.mayAccess(task.UserID); err != nil {
		return nil, err
	}
	return task, nil
}

// List retrieves tasks. Non-admin callers are restricted to their own.
func (s *TaskService) List(ctx context.Context, filter repositories.TaskFilter, caller *Caller) ([]*entities.Task, error) {
	if !caller.IsAdmin() {
		filter.UserID = caller.UserID
	}
	return s.taskRepo.List(ctx, filter)
}

// Moderate sets a pending task to approved or rejected. Only pending tasks
// can be moderated, and only by admins.
func (s *TaskService) Moderate(ctx context.Context, taskID string, status entities.TaskStatus, note string, caller *Caller) (*entities.Task, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can moderate tasks")
	}
	if status != entities.TaskStatusApproved && status != entities.TaskStatusRejected {
		return nil, apperrors.NewValidationError("status must be approved or rejected")
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != entities.TaskStatusPending {
		return nil, apperrors.NewConflictError("task has already been moderated")
	}

	task.Status = status
	task.ModeratorID = &caller.UserID
	task.ModeratorNote = note
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}
