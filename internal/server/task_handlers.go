// internal/server/task_handlers.go
package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/taskforge/internal/service"
)

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *int       `json:"priority"`
	AssignedTo  *string    `json:"assigned_to"`
	IsPrivate   bool       `json:"is_private"`
	IsCompleted bool       `json:"is_completed"`
	Tags        []string   `json:"tags"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *int       `json:"priority"`
	AssignedTo  *string    `json:"assigned_to"`
	IsPrivate   *bool      `json:"is_private"`
	IsCompleted *bool      `json:"is_completed"`
	Tags        []string   `json:"tags"`
}

// parseAssignee converts the optional assigned_to field. false means the
// response was written.
func parseAssignee(w http.ResponseWriter, raw *string) (*uuid.UUID, bool) {
	if raw == nil {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid assigned_to"})
		return nil, false
	}
	return &id, true
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}

	var req createTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	assignee, ok := parseAssignee(w, req.AssignedTo)
	if !ok {
		return
	}

	task, err := s.tasks.Create(r.Context(), actorID, projectID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		AssignedTo:  assignee,
		IsPrivate:   req.IsPrivate,
		IsCompleted: req.IsCompleted,
		Tags:        req.Tags,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}

	tasks, err := s.tasks.List(r.Context(), actorID, projectID, r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, toTaskResponse(&tasks[i]))
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := s.tasks.Get(r.Context(), actorID, projectID, taskID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	assignee, ok := parseAssignee(w, req.AssignedTo)
	if !ok {
		return
	}

	task, err := s.tasks.Update(r.Context(), actorID, projectID, taskID, service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		AssignedTo:  assignee,
		IsPrivate:   req.IsPrivate,
		IsCompleted: req.IsCompleted,
		Tags:        req.Tags,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.tasks.Delete(r.Context(), actorID, projectID, taskID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
