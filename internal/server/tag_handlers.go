// internal/server/tag_handlers.go
package server

import (
	"net/http"

	"github.com/taskforge/taskforge/internal/store"
)

type tagRequest struct {
	Name string `json:"name"`
}

func toSingleTagResponse(t *store.Tag) tagResponse {
	return tagResponse{ID: t.ID.String(), Name: t.Name}
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req tagRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tag, err := s.tags.Create(r.Context(), actorID, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSingleTagResponse(tag))
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	tags, err := s.tags.List(r.Context(), actorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTagResponses(tags))
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	tag, err := s.tags.Get(r.Context(), actorID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSingleTagResponse(tag))
}

func (s *Server) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req tagRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tag, err := s.tags.Rename(r.Context(), actorID, id, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSingleTagResponse(tag))
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.tags.Delete(r.Context(), actorID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
