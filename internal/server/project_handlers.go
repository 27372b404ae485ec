// internal/server/project_handlers.go
package server

import (
	"net/http"

	"github.com/taskforge/taskforge/internal/service"
)

type createProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type updateProjectRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req createProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := s.projects.Create(r.Context(), actorID, service.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProjectResponse(project))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	projects, err := s.projects.List(r.Context(), actorID, r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result := make([]projectResponse, 0, len(projects))
	for i := range projects {
		result = append(result, toProjectResponse(&projects[i]))
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	project, err := s.projects.Get(r.Context(), actorID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProjectResponse(project))
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := s.projects.Update(r.Context(), actorID, id, service.ProjectUpdate{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProjectResponse(project))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.projects.Delete(r.Context(), actorID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListPublicProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.ListPublic(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result := make([]publicProjectResponse, 0, len(projects))
	for i := range projects {
		result = append(result, toPublicProjectResponse(&projects[i]))
	}
	respondJSON(w, http.StatusOK, result)
}
