package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vetlink/vetlink-backend/internal/application/services"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
)

// TaskHandler handles moderation task HTTP requests
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type submitTaskRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type moderateTaskRequest struct {
	Status entities.TaskStatus `json:"status"`
	Note   string              `json:"note"`
}

// SubmitTask handles POST /api/tasks
func (h *TaskHandler) SubmitTask(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if caller == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req submitTaskRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	task, err := h.taskService.Submit(r.Context(), caller.UserID, req.Type, req.Payload)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, task)
}

// GetTask handles GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.Get(r.Context(), r.PathValue("id"), callerFromRequest(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, task)
}

// ListTasks handles GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if caller == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	filter := repositories.TaskFilter{
		Status: entities.TaskStatus(r.URL.Query().Get("status")),
		UserID: r.URL.Query().Get("user_id"),
		Limit:  parseIntParam(r.URL.Query().Get("limit"), 50),
		Offset: parseIntParam(r.URL.Query().Get("offset"), 0),
	}

	tasks, err := h.taskService.List(r.Context(), filter, caller)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

// ModerateTask handles POST /api/tasks/{id}/moderate
func (h *TaskHandler) ModerateTask(w http.ResponseWriter, r *http.Request) {
	var req moderateTaskRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	task, err := h.taskService.Moderate(r.Context(), r.PathValue("id"), req.Status, req.Note, callerFromRequest(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, task)
}
