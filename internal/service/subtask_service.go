// internal/service/subtask_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/taskforge/internal/store"
)

// SubTaskService manages subtasks within a task. Completion propagates
// upward to the parent task; privacy cascades both at creation and update.
type SubTaskService struct {
	store   *store.Store
	auditor *AuditService
}

// NewSubTaskService creates a new subtask service
func NewSubTaskService(st *store.Store, auditor *AuditService) *SubTaskService {
	return &SubTaskService{store: st, auditor: auditor}
}

// SubTaskWithTags pairs a subtask with its attached tags.
type SubTaskWithTags struct {
	store.SubTask
	Tags []store.Tag
}

// SubTaskInput is the payload for creating a subtask.
type SubTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    *int
	IsPrivate   bool
	IsCompleted bool
	Tags        []string
}

// SubTaskUpdate carries the submitted fields of a subtask update.
type SubTaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *int
	IsPrivate   *bool
	IsCompleted *bool
	Tags        []string
}

// canMutateSubTask is the ownership guard for subtask mutations: the
// subtask's owner or the parent task's assignee.
func canMutateSubTask(actor uuid.UUID, subtask *store.SubTask, task *store.Task) bool {
	return subtask.OwnerID == actor || (task.AssignedTo.Valid && task.AssignedTo.UUID == actor)
}

func canViewSubTask(actor uuid.UUID, subtask *store.SubTask, task *store.Task) bool {
	return !subtask.IsPrivate || canMutateSubTask(actor, subtask, task)
}

// Create creates a subtask under a task. The task's owner or assignee may
// create subtasks in it. A subtask under a private task is forced private;
// a private subtask under a public task privatizes the task.
func (s *SubTaskService) Create(ctx context.Context, actor, taskID uuid.UUID, input SubTaskInput) (*SubTaskWithTags, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	subtask := &store.SubTask{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     toNullTime(input.DueDate),
		Priority:    toNullInt(input.Priority),
		TaskID:      taskID,
		OwnerID:     actor,
		IsPrivate:   input.IsPrivate,
		IsCompleted: input.IsCompleted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var tags []store.Tag
	err := s.store.Transact(ctx, func(st *store.Store) error {
		task, err := st.TaskByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound("task", taskID)
			}
			return err
		}
		if task.OwnerID != actor && !(task.AssignedTo.Valid && task.AssignedTo.UUID == actor) {
			return permissionDenied("you do not have permission as you are not the task owner or task assignee")
		}

		// Privacy inheritance at creation time.
		if task.IsPrivate {
			subtask.IsPrivate = true
		}

		if err := st.CreateSubTask(ctx, subtask); err != nil {
			return err
		}

		// Upward privacy cascade.
		if subtask.IsPrivate && !task.IsPrivate {
			if err := markTaskPrivate(ctx, st, task); err != nil {
				return err
			}
		}

		// Completion state of the parent tracks its subtasks. A new complete
		// subtask may finish the task; a new incomplete one reopens it.
		if subtask.IsCompleted {
			if err := recheckCompletion(ctx, st, task); err != nil {
				return err
			}
		} else if err := clearCompletion(ctx, st, task); err != nil {
			return err
		}

		tagIDs, err := resolveOrCreateTags(ctx, st, actor, input.Tags)
		if err != nil {
			return err
		}
		if err := st.ReplaceSubTaskTags(ctx, subtask.ID, tagIDs); err != nil {
			return err
		}
		tags, err = st.SubTaskTags(ctx, subtask.ID)
		return err
	})
	if err != nil {
		s.auditor.RecordIfDenied(ctx, actor, err)
		return nil, err
	}

	return &SubTaskWithTags{SubTask: *subtask, Tags: tags}, nil
}

// Get returns a subtask if the actor may see it.
func (s *SubTaskService) Get(ctx context.Context, actor, taskID, subtaskID uuid.UUID) (*SubTaskWithTags, error) {
	subtask, task, err := s.scopedSubTask(ctx, s.store, taskID, subtaskID)
	if err != nil {
		return nil, err
	}
	if !canViewSubTask(actor, subtask, task) {
		return nil, notFound("subtask", subtaskID)
	}

	tags, err := s.store.SubTaskTags(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	return &SubTaskWithTags{SubTask: *subtask, Tags: tags}, nil
}

// List returns the task's subtasks visible to actor.
func (s *SubTaskService) List(ctx context.Context, actor, taskID uuid.UUID, query string) ([]SubTaskWithTags, error) {
	if _, err := s.store.TaskByID(ctx, taskID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("task", taskID)
		}
		return nil, err
	}

	subtasks, err := s.store.ListVisibleSubTasks(ctx, taskID, actor, query)
	if err != nil {
		return nil, err
	}

	result := make([]SubTaskWithTags, 0, len(subtasks))
	for _, st := range subtasks {
		tags, err := s.store.SubTaskTags(ctx, st.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, SubTaskWithTags{SubTask: st, Tags: tags})
	}
	return result, nil
}

// Update applies the submitted fields after re-checking the mutation guard.
// Completion flips trigger the parent task's cascade; marking the subtask
// private privatizes the parent task.
func (s *SubTaskService) Update(ctx context.Context, actor, taskID, subtaskID uuid.UUID, update SubTaskUpdate) (*SubTaskWithTags, error) {
	var result *SubTaskWithTags
	err := s.store.Transact(ctx, func(st *store.Store) error {
		subtask, task, err := s.scopedSubTask(ctx, st, taskID, subtaskID)
		if err != nil {
			return err
		}
		if !canMutateSubTask(actor, subtask, task) {
			return permissionDenied("you do not have permission to update this subtask")
		}

		if update.Title != nil {
			if err := validateTitle(*update.Title); err != nil {
				return err
			}
			subtask.Title = *update.Title
		}
		if update.Description != nil {
			subtask.Description = *update.Description
		}
		if update.DueDate != nil {
			subtask.DueDate = toNullTime(update.DueDate)
		}
		if update.Priority != nil {
			subtask.Priority = toNullInt(update.Priority)
		}

		completionFlipped := false
		if update.IsCompleted != nil && *update.IsCompleted != subtask.IsCompleted {
			subtask.IsCompleted = *update.IsCompleted
			completionFlipped = true
		}
		if update.IsPrivate != nil {
			subtask.IsPrivate = *update.IsPrivate
		}

		subtask.UpdatedAt = time.Now().UTC()
		if err := st.UpdateSubTask(ctx, subtask); err != nil {
			return err
		}

		// Upward privacy cascade, regardless of the task's prior state.
		if update.IsPrivate != nil && *update.IsPrivate {
			if err := markTaskPrivate(ctx, st, task); err != nil {
				return err
			}
		}

		if completionFlipped {
			if subtask.IsCompleted {
				if err := recheckCompletion(ctx, st, task); err != nil {
					return err
				}
			} else if err := clearCompletion(ctx, st, task); err != nil {
				return err
			}
		}

		if update.Tags != nil {
			tagIDs, err := resolveOrCreateTags(ctx, st, actor, update.Tags)
			if err != nil {
				return err
			}
			if err := st.ReplaceSubTaskTags(ctx, subtaskID, tagIDs); err != nil {
				return err
			}
		}

		tags, err := st.SubTaskTags(ctx, subtaskID)
		if err != nil {
			return err
		}
		result = &SubTaskWithTags{SubTask: *subtask, Tags: tags}
		return nil
	})
	if err != nil {
		s.auditor.RecordIfDenied(ctx, actor, err)
		return nil, err
	}
	return result, nil
}

// Delete removes a subtask. Owner only.
func (s *SubTaskService) Delete(ctx context.Context, actor, taskID, subtaskID uuid.UUID) error {
	err := s.store.Transact(ctx, func(st *store.Store) error {
		subtask, _, err := s.scopedSubTask(ctx, st, taskID, subtaskID)
		if err != nil {
			return err
		}
		if subtask.OwnerID != actor {
			return permissionDenied("you do not have permission to delete this subtask")
		}
		return st.DeleteSubTask(ctx, subtaskID)
	})
	s.auditor.RecordIfDenied(ctx, actor, err)
	return err
}

// scopedSubTask loads a subtask and its parent task, verifying the subtask
// belongs to the routed task.
func (s *SubTaskService) scopedSubTask(ctx context.Context, st *store.Store, taskID, subtaskID uuid.UUID) (*store.SubTask, *store.Task, error) {
	subtask, err := st.SubTaskByID(ctx, subtaskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, notFound("subtask", subtaskID)
		}
		return nil, nil, err
	}
	if subtask.TaskID != taskID {
		return nil, nil, notFound("subtask", subtaskID)
	}

	task, err := st.TaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, notFound("task", taskID)
		}
		return nil, nil, err
	}
	return subtask, task, nil
}
