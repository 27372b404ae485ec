// internal/server/subtask_handlers.go
package server

import (
	"net/http"
	"time"

	"github.com/taskforge/taskforge/internal/service"
)

type createSubTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *int       `json:"priority"`
	IsPrivate   bool       `json:"is_private"`
	IsCompleted bool       `json:"is_completed"`
	Tags        []string   `json:"tags"`
}

type updateSubTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *int       `json:"priority"`
	IsPrivate   *bool      `json:"is_private"`
	IsCompleted *bool      `json:"is_completed"`
	Tags        []string   `json:"tags"`
}

func (s *Server) handleCreateSubTask(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	var req createSubTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	subtask, err := s.subtasks.Create(r.Context(), actorID, taskID, service.SubTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		IsPrivate:   req.IsPrivate,
		IsCompleted: req.IsCompleted,
		Tags:        req.Tags,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSubTaskResponse(subtask))
}

func (s *Server) handleListSubTasks(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	subtasks, err := s.subtasks.List(r.Context(), actorID, taskID, r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result := make([]subtaskResponse, 0, len(subtasks))
	for i := range subtasks {
		result = append(result, toSubTaskResponse(&subtasks[i]))
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetSubTask(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}
	subtaskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	subtask, err := s.subtasks.Get(r.Context(), actorID, taskID, subtaskID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubTaskResponse(subtask))
}

func (s *Server) handleUpdateSubTask(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}
	subtaskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateSubTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	subtask, err := s.subtasks.Update(r.Context(), actorID, taskID, subtaskID, service.SubTaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		IsPrivate:   req.IsPrivate,
		IsCompleted: req.IsCompleted,
		Tags:        req.Tags,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubTaskResponse(subtask))
}

func (s *Server) handleDeleteSubTask(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}
	subtaskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.subtasks.Delete(r.Context(), actorID, taskID, subtaskID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
