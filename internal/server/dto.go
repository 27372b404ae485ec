// internal/server/dto.go
package server

import (
	"time"

	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/internal/store"
)

type tagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
}

type projectResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Tags        []tagResponse `json:"tags"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// publicProjectResponse is the discovery surface: id, title and tags only.
type publicProjectResponse struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Tags  []tagResponse `json:"tags"`
}

type taskResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Priority    *int          `json:"priority,omitempty"`
	ProjectID   string        `json:"project_id"`
	Owner       string        `json:"owner"`
	AssignedTo  *string       `json:"assigned_to,omitempty"`
	IsPrivate   bool          `json:"is_private"`
	IsCompleted bool          `json:"is_completed"`
	Tags        []tagResponse `json:"tags"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type subtaskResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Priority    *int          `json:"priority,omitempty"`
	TaskID      string        `json:"task_id"`
	Owner       string        `json:"owner"`
	IsPrivate   bool          `json:"is_private"`
	IsCompleted bool          `json:"is_completed"`
	Tags        []tagResponse `json:"tags"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func toTagResponses(tags []store.Tag) []tagResponse {
	result := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		result = append(result, tagResponse{ID: t.ID.String(), Name: t.Name})
	}
	return result
}

func toUserResponse(u *store.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func toProjectResponse(p *service.ProjectWithTags) projectResponse {
	return projectResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Tags:        toTagResponses(p.Tags),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPublicProjectResponse(p *service.ProjectWithTags) publicProjectResponse {
	return publicProjectResponse{
		ID:    p.ID.String(),
		Title: p.Title,
		Tags:  toTagResponses(p.Tags),
	}
}

func toTaskResponse(t *service.TaskWithTags) taskResponse {
	resp := taskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		ProjectID:   t.ProjectID.String(),
		Owner:       t.OwnerID.String(),
		IsPrivate:   t.IsPrivate,
		IsCompleted: t.IsCompleted,
		Tags:        toTagResponses(t.Tags),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate.Valid {
		due := t.DueDate.Time
		resp.DueDate = &due
	}
	if t.Priority.Valid {
		priority := int(t.Priority.Int64)
		resp.Priority = &priority
	}
	if t.AssignedTo.Valid {
		assignee := t.AssignedTo.UUID.String()
		resp.AssignedTo = &assignee
	}
	return resp
}

func toSubTaskResponse(st *service.SubTaskWithTags) subtaskResponse {
	resp := subtaskResponse{
		ID:          st.ID.String(),
		Title:       st.Title,
		Description: st.Description,
		TaskID:      st.TaskID.String(),
		Owner:       st.OwnerID.String(),
		IsPrivate:   st.IsPrivate,
		IsCompleted: st.IsCompleted,
		Tags:        toTagResponses(st.Tags),
		CreatedAt:   st.CreatedAt,
		UpdatedAt:   st.UpdatedAt,
	}
	if st.DueDate.Valid {
		due := st.DueDate.Time
		resp.DueDate = &due
	}
	if st.Priority.Valid {
		priority := int(st.Priority.Int64)
		resp.Priority = &priority
	}
	return resp
}
