// internal/server/respond.go
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/taskforge/taskforge/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Permission failures are 403, unknown or out-of-scope entities 404,
// business-rule violations 422.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case service.IsPermission(err):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case service.IsNotFound(err):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case service.IsValidation(err):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeJSON parses the request body into dst. A malformed body is the
// caller's fault and reported as 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

// pathUUID parses a UUID path segment. false means the response was written.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
