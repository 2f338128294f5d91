package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

type MockTaskRepo struct {
	mock.Mock
}

func (m *MockTaskRepo) Create(ctx context.Context, task *entities.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
func (m *MockTaskRepo) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}
func (m *MockTaskRepo) List(ctx context.Context, filter repositories.TaskFilter) ([]*entities.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Task), args.Error(1)
}
func (m *MockTaskRepo) Update(ctx context.Context, task *entities.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

var (
	adminCaller  = &Caller{UserID: "admin-1", Role: entities.UserRoleAdmin}
	clientCaller = &Caller{UserID: "user-1", Role: entities.UserRoleClient}
)

func TestSubmitCreatesPendingTask(t *testing.T) {
	repo := new(MockTaskRepo)
	svc := NewTaskService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(task *entities.Task) bool {
		return task.Status == entities.TaskStatusPending && task.UserID == "user-1"
	})).Return(nil)

	task, err := svc.Submit(context.Background(), "user-1", "listing_correction", json.RawMessage(`{"name":"New name"}`))

	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusPending, task.Status)
	repo.AssertExpectations(t)
}

func TestSubmitRejectsInvalidPayload(t *testing.T) {
	svc := NewTaskService(new(MockTaskRepo))

	_, err := svc.Submit(context.Background(), "user-1", "listing_correction", json.RawMessage(`not json`))

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestListScopesClientsToOwnTasks(t *testing.T) {
	repo := new(MockTaskRepo)
	svc := NewTaskService(repo)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f repositories.TaskFilter) bool {
		return f.UserID == "user-1"
	})).Return([]*entities.Task{}, nil)

	_, err := svc.List(context.Background(), repositories.TaskFilter{}, clientCaller)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestModerateApprovesPendingTask(t *testing.T) {
	repo := new(MockTaskRepo)
	svc := NewTaskService(repo)

	pending := &entities.Task{ID: "task-1", UserID: "user-1", Status: entities.TaskStatusPending}
	repo.On("GetByID", mock.Anything, "task-1").Return(pending, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(task *entities.Task) bool {
		return task.Status == entities.TaskStatusApproved && task.ModeratorID != nil && *task.ModeratorID == "admin-1"
	})).Return(nil)

	task, err := svc.Moderate(context.Background(), "task-1", entities.TaskStatusApproved, "looks good", adminCaller)

	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusApproved, task.Status)
}

func TestModerateRejectsNonAdmin(t *testing.T) {
	svc := NewTaskService(new(MockTaskRepo))

	_, err := svc.Moderate(context.Background(), "task-1", entities.TaskStatusApproved, "", clientCaller)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeForbidden, apperrors.TypeOf(err))
}

func TestModerateRejectsAlreadyModeratedTask(t *testing.T) {
	repo := new(MockTaskRepo)
	svc := NewTaskService(repo)

	approved := &entities.Task{ID: "task-1", Status: entities.TaskStatusApproved}
	repo.On("GetByID", mock.Anything, "task-1").Return(approved, nil)

	_, err := svc.Moderate(context.Background(), "task-1", entities.TaskStatusRejected, "", adminCaller)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
}
