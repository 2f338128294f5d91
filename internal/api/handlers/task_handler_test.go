package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vetlink/vetlink-backend/internal/api/handlers"
	"github.com/vetlink/vetlink-backend/internal/api/middleware"
	"github.com/vetlink/vetlink-backend/internal/application/services"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *entities.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, filter repositories.TaskFilter) ([]*entities.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *entities.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func withCaller(req *http.Request, userID string, role entities.UserRole) *http.Request {
	ctx := middleware.ContextWithCaller(req.Context(), &middleware.CallerInfo{UserID: userID, Role: role})
	return req.WithContext(ctx)
}

func TestTaskHandler_SubmitTask_CreatesPendingTask(t *testing.T) {
	repo := new(MockTaskRepository)
	handler := handlers.NewTaskHandler(services.NewTaskService(repo))

	repo.On("Create", mock.Anything, mock.MatchedBy(func(task *entities.Task) bool {
		return task.UserID == "user-1" && task.Status == entities.TaskStatusPending
	})).Return(nil)

	body := `{"type":"organization_suggestion","payload":{"name":"New Clinic"}}`
	req := httptest.NewRequest("POST", "/api/tasks", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.SubmitTask(w, withCaller(req, "user-1", entities.UserRoleClient))

	assert.Equal(t, http.StatusCreated, w.Code)

	var task entities.Task
	err := json.NewDecoder(w.Body).Decode(&task)
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusPending, task.Status)
	assert.NotEmpty(t, task.ID)
}

func TestTaskHandler_SubmitTask_RequiresAuthentication(t *testing.T) {
	handler := handlers.NewTaskHandler(services.NewTaskService(new(MockTaskRepository)))

	body := `{"type":"organization_suggestion","payload":{}}`
	req := httptest.NewRequest("POST", "/api/tasks", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.SubmitTask(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTaskHandler_ListTasks_ScopesClientsToOwnTasks(t *testing.T) {
	repo := new(MockTaskRepository)
	handler := handlers.NewTaskHandler(services.NewTaskService(repo))

	repo.On("List", mock.Anything, mock.MatchedBy(func(f repositories.TaskFilter) bool {
		return f.UserID == "user-1"
	})).Return([]*entities.Task{{ID: "task-1", UserID: "user-1"}}, nil)

	// A client asking for someone else's tasks still only sees their own
	req := httptest.NewRequest("GET", "/api/tasks?user_id=user-2", nil)
	w := httptest.NewRecorder()

	handler.ListTasks(w, withCaller(req, "user-1", entities.UserRoleClient))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tasks []*entities.Task `json:"tasks"`
	}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Len(t, resp.Tasks, 1)
}

func TestTaskHandler_ModerateTask_ApprovesPendingTask(t *testing.T) {
	repo := new(MockTaskRepository)
	handler := handlers.NewTaskHandler(services.NewTaskService(repo))

	pending := &entities.Task{ID: "task-1", UserID: "user-1", Status: entities.TaskStatusPending}
	repo.On("GetByID", mock.Anything, "task-1").Return(pending, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(task *entities.Task) bool {
		return task.Status == entities.TaskStatusApproved && task.ModeratorID != nil && *task.ModeratorID == "admin-1"
	})).Return(nil)

	body := `{"status":"approved","note":"looks good"}`
	req := httptest.NewRequest("POST", "/api/tasks/task-1/moderate", strings.NewReader(body))
	req.SetPathValue("id", "task-1")
	w := httptest.NewRecorder()

	handler.ModerateTask(w, withCaller(req, "admin-1", entities.UserRoleAdmin))

	assert.Equal(t, http.StatusOK, w.Code)

	var task entities.Task
	err := json.NewDecoder(w.Body).Decode(&task)
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusApproved, task.Status)
}

func TestTaskHandler_ModerateTask_ForbiddenForClients(t *testing.T) {
	repo := new(MockTaskRepository)
	handler := handlers.NewTaskHandler(services.NewTaskService(repo))

	body := `{"status":"approved"}`
	req := httptest.NewRequest("POST", "/api/tasks/task-1/moderate", strings.NewReader(body))
	req.SetPathValue("id", "task-1")
	w := httptest.NewRecorder()

	handler.ModerateTask(w, withCaller(req, "user-1", entities.UserRoleClient))

	assert.Equal(t, http.StatusForbidden, w.Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
