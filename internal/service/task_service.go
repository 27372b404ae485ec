// internal/service/task_service.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/taskforge/internal/store"
)

// TaskService manages tasks within a project. Mutations are guarded by
// ownership or assignment, re-checked on every request.
type TaskService struct {
	store   *store.Store
	auditor *AuditService
}

// NewTaskService creates a new task service
func NewTaskService(st *store.Store, auditor *AuditService) *TaskService {
	return &TaskService{store: st, auditor: auditor}
}

// TaskWithTags pairs a task with its attached tags.
type TaskWithTags struct {
	store.Task
	Tags []store.Tag
}

// TaskInput is the payload for creating a task.
type TaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    *int
	AssignedTo  *uuid.UUID
	IsPrivate   bool
	IsCompleted bool
	Tags        []string
}

// TaskUpdate carries the submitted fields of a task update. Nil means the
// field was not submitted; a non-nil Tags slice replaces the tag list.
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *int
	AssignedTo  *uuid.UUID
	IsPrivate   *bool
	IsCompleted *bool
	Tags        []string
}

// canMutateTask is the ownership guard for task mutations: the task's owner
// or its assignee.
func canMutateTask(actor uuid.UUID, task *store.Task) bool {
	return task.OwnerID == actor || (task.AssignedTo.Valid && task.AssignedTo.UUID == actor)
}

// canViewTask applies the visibility rule: owner, assignee, or anyone when
// the task is not private.
func canViewTask(actor uuid.UUID, task *store.Task) bool {
	return !task.IsPrivate || canMutateTask(actor, task)
}

// Create creates a task under a project. Only the project owner may create
// tasks in it; violation is a permission error, not a validation error.
func (s *TaskService) Create(ctx context.Context, actor, projectID uuid.UUID, input TaskInput) (*TaskWithTags, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &store.Task{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     toNullTime(input.DueDate),
		Priority:    toNullInt(input.Priority),
		ProjectID:   projectID,
		OwnerID:     actor,
		IsPrivate:   input.IsPrivate,
		IsCompleted: input.IsCompleted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var tags []store.Tag
	err := s.store.Transact(ctx, func(st *store.Store) error {
		project, err := st.ProjectByID(ctx, projectID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound("project", projectID)
			}
			return err
		}
		if project.OwnerID != actor {
			return permissionDenied("you do not have permission as you are not the project owner")
		}

		if input.AssignedTo != nil {
			if err := s.checkAssignee(ctx, st, *input.AssignedTo); err != nil {
				return err
			}
			task.AssignedTo = uuid.NullUUID{UUID: *input.AssignedTo, Valid: true}
		}

		if err := st.CreateTask(ctx, task); err != nil {
			return err
		}

		tagIDs, err := resolveOrCreateTags(ctx, st, actor, input.Tags)
		if err != nil {
			return err
		}
		if err := st.ReplaceTaskTags(ctx, task.ID, tagIDs); err != nil {
			return err
		}
		tags, err = st.TaskTags(ctx, task.ID)
		return err
	})
	if err != nil {
		s.auditor.RecordIfDenied(ctx, actor, err)
		return nil, err
	}

	return &TaskWithTags{Task: *task, Tags: tags}, nil
}

// Get returns a task if the actor may see it. Private tasks of other users
// are reported as not found.
func (s *TaskService) Get(ctx context.Context, actor, projectID, taskID uuid.UUID) (*TaskWithTags, error) {
	task, err := s.scopedTask(ctx, s.store, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if !canViewTask(actor, task) {
		return nil, notFound("task", taskID)
	}

	tags, err := s.store.TaskTags(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return &TaskWithTags{Task: *task, Tags: tags}, nil
}

// List returns the project's tasks visible to actor: owned, assigned, or
// not private. An optional search term narrows the result.
func (s *TaskService) List(ctx context.Context, actor, projectID uuid.UUID, query string) ([]TaskWithTags, error) {
	if _, err := s.store.ProjectByID(ctx, projectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("project", projectID)
		}
		return nil, err
	}

	tasks, err := s.store.ListVisibleTasks(ctx, projectID, actor, query)
	if err != nil {
		return nil, err
	}

	result := make([]TaskWithTags, 0, len(tasks))
	for _, t := range tasks {
		tags, err := s.store.TaskTags(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, TaskWithTags{Task: t, Tags: tags})
	}
	return result, nil
}

// Update applies the submitted fields after re-checking the mutation guard.
// Completing a task with incomplete subtasks fails with no partial effect;
// marking it private cascades to all current subtasks.
func (s *TaskService) Update(ctx context.Context, actor, projectID, taskID uuid.UUID, update TaskUpdate) (*TaskWithTags, error) {
	var result *TaskWithTags
	err := s.store.Transact(ctx, func(st *store.Store) error {
		task, err := s.scopedTask(ctx, st, projectID, taskID)
		if err != nil {
			return err
		}
		if !canMutateTask(actor, task) {
			return permissionDenied("you do not have permission to update this task")
		}

		if update.Title != nil {
			if err := validateTitle(*update.Title); err != nil {
				return err
			}
			task.Title = *update.Title
		}
		if update.Description != nil {
			task.Description = *update.Description
		}
		if update.DueDate != nil {
			task.DueDate = toNullTime(update.DueDate)
		}
		if update.Priority != nil {
			task.Priority = toNullInt(update.Priority)
		}
		if update.AssignedTo != nil {
			if err := s.checkAssignee(ctx, st, *update.AssignedTo); err != nil {
				return err
			}
			task.AssignedTo = uuid.NullUUID{UUID: *update.AssignedTo, Valid: true}
		}

		if update.IsCompleted != nil {
			if *update.IsCompleted {
				incomplete, err := st.IncompleteSubtaskCount(ctx, taskID)
				if err != nil {
					return err
				}
				if incomplete > 0 {
					return validationFailed("is_completed", "cannot complete task: some subtasks are not completed")
				}
			}
			task.IsCompleted = *update.IsCompleted
		}

		if update.IsPrivate != nil {
			task.IsPrivate = *update.IsPrivate
		}

		task.UpdatedAt = time.Now().UTC()
		if err := st.UpdateTask(ctx, task); err != nil {
			return err
		}

		// Downward privacy cascade, applied once at the time of the request.
		if update.IsPrivate != nil && *update.IsPrivate {
			if err := st.MarkSubtasksPrivate(ctx, taskID); err != nil {
				return err
			}
		}

		if update.Tags != nil {
			tagIDs, err := resolveOrCreateTags(ctx, st, actor, update.Tags)
			if err != nil {
				return err
			}
			if err := st.ReplaceTaskTags(ctx, taskID, tagIDs); err != nil {
				return err
			}
		}

		tags, err := st.TaskTags(ctx, taskID)
		if err != nil {
			return err
		}
		result = &TaskWithTags{Task: *task, Tags: tags}
		return nil
	})
	if err != nil {
		s.auditor.RecordIfDenied(ctx, actor, err)
		return nil, err
	}
	return result, nil
}

// Delete removes a task and its subtasks. Owner only; the assignee may
// update a task but not delete it.
func (s *TaskService) Delete(ctx context.Context, actor, projectID, taskID uuid.UUID) error {
	err := s.store.Transact(ctx, func(st *store.Store) error {
		task, err := s.scopedTask(ctx, st, projectID, taskID)
		if err != nil {
			return err
		}
		if task.OwnerID != actor {
			return permissionDenied("you do not have permission to delete this task")
		}
		return st.DeleteTask(ctx, taskID)
	})
	s.auditor.RecordIfDenied(ctx, actor, err)
	return err
}

// scopedTask loads a task and verifies it belongs to the routed project.
func (s *TaskService) scopedTask(ctx context.Context, st *store.Store, projectID, taskID uuid.UUID) (*store.Task, error) {
	task, err := st.TaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("task", taskID)
		}
		return nil, err
	}
	if task.ProjectID != projectID {
		return nil, notFound("task", taskID)
	}
	return task, nil
}

func (s *TaskService) checkAssignee(ctx context.Context, st *store.Store, assignee uuid.UUID) error {
	if _, err := st.UserByID(ctx, assignee); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return validationFailed("assigned_to", "assignee does not exist")
		}
		return err
	}
	return nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func toNullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
