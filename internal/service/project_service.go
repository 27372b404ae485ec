// internal/service/project_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/taskforge/internal/store"
)

// ProjectService manages projects. Only the owner may see or mutate a
// project; the public listing is the one deliberate exception.
type ProjectService struct {
	store   *store.Store
	auditor *AuditService
}

// NewProjectService creates a new project service
func NewProjectService(st *store.Store, auditor *AuditService) *ProjectService {
	return &ProjectService{store: st, auditor: auditor}
}

// ProjectWithTags pairs a project with its attached tags.
type ProjectWithTags struct {
	store.Project
	Tags []store.Tag
}

// ProjectInput is the payload for creating a project.
type ProjectInput struct {
	Title       string
	Description string
	Tags        []string
}

// ProjectUpdate carries the submitted fields of a project update. Nil means
// the field was not submitted; a non-nil Tags slice replaces the tag list.
type ProjectUpdate struct {
	Title       *string
	Description *string
	Tags        []string
}

// Create creates a project owned by actor, resolving and attaching the
// submitted tags in the same transaction.
func (s *ProjectService) Create(ctx context.Context, actor uuid.UUID, input ProjectInput) (*ProjectWithTags, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &store.Project{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var tags []store.Tag
	err := s.store.Transact(ctx, func(st *store.Store) error {
		if err := st.CreateProject(ctx, project); err != nil {
			return err
		}
		tagIDs, err := resolveOrCreateTags(ctx, st, actor, input.Tags)
		if err != nil {
			return err
		}
		if err := st.ReplaceProjectTags(ctx, project.ID, tagIDs); err != nil {
			return err
		}
		tags, err = st.ProjectTags(ctx, project.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &ProjectWithTags{Project: *project, Tags: tags}, nil
}

// Get returns one of the actor's projects. Projects of other users are
// reported as not found.
func (s *ProjectService) Get(ctx context.Context, actor, id uuid.UUID) (*ProjectWithTags, error) {
	project, err := s.ownedProject(ctx, s.store, actor, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.store.ProjectTags(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProjectWithTags{Project: *project, Tags: tags}, nil
}

// List returns the actor's projects, optionally filtered by a search term.
func (s *ProjectService) List(ctx context.Context, actor uuid.UUID, query string) ([]ProjectWithTags, error) {
	projects, err := s.store.ListProjectsByOwner(ctx, actor, query)
	if err != nil {
		return nil, err
	}
	return s.withTags(ctx, projects)
}

// Update applies the submitted fields after re-checking ownership.
func (s *ProjectService) Update(ctx context.Context, actor, id uuid.UUID, update ProjectUpdate) (*ProjectWithTags, error) {
	var result *ProjectWithTags
	err := s.store.Transact(ctx, func(st *store.Store) error {
		project, err := st.ProjectByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound("project", id)
			}
			return err
		}
		if project.OwnerID != actor {
			return permissionDenied("you do not have permission to update this project")
		}

		if update.Title != nil {
			if err := validateTitle(*update.Title); err != nil {
				return err
			}
			project.Title = *update.Title
		}
		if update.Description != nil {
			project.Description = *update.Description
		}
		project.UpdatedAt = time.Now().UTC()

		if err := st.UpdateProject(ctx, project); err != nil {
			return err
		}

		if update.Tags != nil {
			tagIDs, err := resolveOrCreateTags(ctx, st, actor, update.Tags)
			if err != nil {
				return err
			}
			if err := st.ReplaceProjectTags(ctx, id, tagIDs); err != nil {
				return err
			}
		}

		tags, err := st.ProjectTags(ctx, id)
		if err != nil {
			return err
		}
		result = &ProjectWithTags{Project: *project, Tags: tags}
		return nil
	})
	if err != nil {
		s.auditor.RecordIfDenied(ctx, actor, err)
		return nil, err
	}
	return result, nil
}

// Delete removes a project and, through the store's cascading deletes, its
// tasks and subtasks.
func (s *ProjectService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	err := s.store.Transact(ctx, func(st *store.Store) error {
		project, err := st.ProjectByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound("project", id)
			}
			return err
		}
		if project.OwnerID != actor {
			return permissionDenied("you do not have permission to delete this project")
		}
		return st.DeleteProject(ctx, id)
	})
	s.auditor.RecordIfDenied(ctx, actor, err)
	return err
}

// ListPublic returns every project's discoverable surface: id, title, tags.
// No authorization check; read-only.
func (s *ProjectService) ListPublic(ctx context.Context) ([]ProjectWithTags, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return s.withTags(ctx, projects)
}

func (s *ProjectService) withTags(ctx context.Context, projects []store.Project) ([]ProjectWithTags, error) {
	result := make([]ProjectWithTags, 0, len(projects))
	for _, p := range projects {
		tags, err := s.store.ProjectTags(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, ProjectWithTags{Project: p, Tags: tags})
	}
	return result, nil
}

// ownedProject loads a project and hides it from non-owners.
func (s *ProjectService) ownedProject(ctx context.Context, st *store.Store, actor, id uuid.UUID) (*store.Project, error) {
	project, err := st.ProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("project", id)
		}
		return nil, err
	}
	if project.OwnerID != actor {
		return nil, notFound("project", id)
	}
	return project, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return validationFailed("title", "title is required")
	}
	if len(title) > 100 {
		return validationFailed("title", "title must not exceed 100 characters")
	}
	return nil
}
