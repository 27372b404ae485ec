// internal/service/cascade.go
package service

import (
	"context"
	"time"

	"github.com/taskforge/taskforge/internal/store"
)

// recheckCompletion is the single idempotent completion cascade: when every
// subtask of the task is complete, the task becomes complete; otherwise it
// is left unchanged. Called whenever a subtask's completion flips to true.
// Runs inside the caller's transaction.
func recheckCompletion(ctx context.Context, st *store.Store, task *store.Task) error {
	if task.IsCompleted {
		return nil
	}

	incomplete, err := st.IncompleteSubtaskCount(ctx, task.ID)
	if err != nil {
		return err
	}
	if incomplete > 0 {
		return nil
	}

	task.IsCompleted = true
	task.UpdatedAt = time.Now().UTC()
	return st.UpdateTask(ctx, task)
}

// clearCompletion reverts a completed task to incomplete. Invoked when a
// subtask turns (or arrives) incomplete, so a completed task never carries
// an incomplete subtask.
func clearCompletion(ctx context.Context, st *store.Store, task *store.Task) error {
	if !task.IsCompleted {
		return nil
	}

	task.IsCompleted = false
	task.UpdatedAt = time.Now().UTC()
	return st.UpdateTask(ctx, task)
}

// markTaskPrivate is the upward privacy cascade from a subtask to its
// parent task. Clearing privacy never cascades.
func markTaskPrivate(ctx context.Context, st *store.Store, task *store.Task) error {
	if task.IsPrivate {
		return nil
	}

	task.IsPrivate = true
	task.UpdatedAt = time.Now().UTC()
	return st.UpdateTask(ctx, task)
}
