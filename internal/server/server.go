// internal/server/server.go
package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/taskforge/taskforge/internal/middleware"
	"github.com/taskforge/taskforge/internal/service"
)

// Server wires the HTTP surface to the service layer.
type Server struct {
	auth     *service.AuthService
	projects *service.ProjectService
	tasks    *service.TaskService
	subtasks *service.SubTaskService
	tags     *service.TagService
	authn    *middleware.Authenticator
}

// New creates a new server
func New(
	auth *service.AuthService,
	projects *service.ProjectService,
	tasks *service.TaskService,
	subtasks *service.SubTaskService,
	tags *service.TagService,
	authn *middleware.Authenticator,
) *Server {
	return &Server{
		auth:     auth,
		projects: projects,
		tasks:    tasks,
		subtasks: subtasks,
		tags:     tags,
		authn:    authn,
	}
}

// Routes builds the route table. Auth endpoints, the public project listing
// and the health check are the only unauthenticated paths.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	public := func(h http.HandlerFunc) http.Handler {
		return middleware.RequestLogger(h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return s.authn.RequireAuth(middleware.RequestLogger(h))
	}

	mux.Handle("GET /healthz", public(s.handleHealth))

	mux.Handle("POST /api/v1/auth/register", public(s.handleRegister))
	mux.Handle("POST /api/v1/auth/login", public(s.handleLogin))
	mux.Handle("POST /api/v1/auth/refresh", public(s.handleRefresh))

	mux.Handle("GET /api/v1/public-projects", public(s.handleListPublicProjects))

	mux.Handle("POST /api/v1/projects", protected(s.handleCreateProject))
	mux.Handle("GET /api/v1/projects", protected(s.handleListProjects))
	mux.Handle("GET /api/v1/projects/{id}", protected(s.handleGetProject))
	mux.Handle("PUT /api/v1/projects/{id}", protected(s.handleUpdateProject))
	mux.Handle("DELETE /api/v1/projects/{id}", protected(s.handleDeleteProject))

	mux.Handle("POST /api/v1/projects/{projectID}/tasks", protected(s.handleCreateTask))
	mux.Handle("GET /api/v1/projects/{projectID}/tasks", protected(s.handleListTasks))
	mux.Handle("GET /api/v1/projects/{projectID}/tasks/{id}", protected(s.handleGetTask))
	mux.Handle("PUT /api/v1/projects/{projectID}/tasks/{id}", protected(s.handleUpdateTask))
	mux.Handle("DELETE /api/v1/projects/{projectID}/tasks/{id}", protected(s.handleDeleteTask))

	mux.Handle("POST /api/v1/tasks/{taskID}/subtasks", protected(s.handleCreateSubTask))
	mux.Handle("GET /api/v1/tasks/{taskID}/subtasks", protected(s.handleListSubTasks))
	mux.Handle("GET /api/v1/tasks/{taskID}/subtasks/{id}", protected(s.handleGetSubTask))
	mux.Handle("PUT /api/v1/tasks/{taskID}/subtasks/{id}", protected(s.handleUpdateSubTask))
	mux.Handle("DELETE /api/v1/tasks/{taskID}/subtasks/{id}", protected(s.handleDeleteSubTask))

	mux.Handle("POST /api/v1/tags", protected(s.handleCreateTag))
	mux.Handle("GET /api/v1/tags", protected(s.handleListTags))
	mux.Handle("GET /api/v1/tags/{id}", protected(s.handleGetTag))
	mux.Handle("PUT /api/v1/tags/{id}", protected(s.handleUpdateTag))
	mux.Handle("DELETE /api/v1/tags/{id}", protected(s.handleDeleteTag))

	return middleware.ClientInfoExtractor(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// actor returns the authenticated user's ID. false means the response was
// written; only reachable if a protected route is misregistered.
func actor(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return uuid.Nil, false
	}
	return id, true
}
