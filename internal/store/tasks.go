// internal/store/tasks.go
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreateTask(ctx context.Context, t *Task) error {
	_, err := s.exec(ctx,
		`INSERT INTO tasks (id, title, description, due_date, priority, project_id,
		                    owner_id, assigned_to, is_private, is_completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.DueDate, t.Priority, t.ProjectID,
		t.OwnerID, t.AssignedTo, t.IsPrivate, t.IsCompleted, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) TaskByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	var t Task
	if err := s.get(ctx, &t, `SELECT * FROM tasks WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListVisibleTasks returns a project's tasks visible to actor: owned by,
// assigned to, or not private. An optional search term narrows by title,
// description and tag names.
func (s *Store) ListVisibleTasks(ctx context.Context, projectID, actor uuid.UUID, query string) ([]Task, error) {
	q := `SELECT t.* FROM tasks t
	      WHERE t.project_id = ?
	        AND (t.owner_id = ? OR t.assigned_to = ? OR t.is_private = FALSE)`
	args := []interface{}{projectID, actor, actor}

	if query != "" {
		q += ` AND (t.title LIKE ? OR t.description LIKE ? OR EXISTS (
			SELECT 1 FROM task_tags tt JOIN tags g ON g.id = tt.tag_id
			WHERE tt.task_id = t.id AND g.name LIKE ?))`
		pattern := "%" + query + "%"
		args = append(args, pattern, pattern, pattern)
	}
	q += ` ORDER BY t.created_at`

	tasks := []Task{}
	if err := s.selectAll(ctx, &tasks, q, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, t *Task) error {
	_, err := s.exec(ctx,
		`UPDATE tasks SET title = ?, description = ?, due_date = ?, priority = ?,
		                  assigned_to = ?, is_private = ?, is_completed = ?, updated_at = ?
		 WHERE id = ?`,
		t.Title, t.Description, t.DueDate, t.Priority,
		t.AssignedTo, t.IsPrivate, t.IsCompleted, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	_, err := s.exec(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// IncompleteSubtaskCount counts a task's subtasks with is_completed = false.
func (s *Store) IncompleteSubtaskCount(ctx context.Context, taskID uuid.UUID) (int, error) {
	var count int
	err := s.get(ctx, &count,
		`SELECT COUNT(*) FROM subtasks WHERE task_id = ? AND is_completed = FALSE`, taskID)
	if err != nil {
		return 0, fmt.Errorf("count incomplete subtasks: %w", err)
	}
	return count, nil
}

// MarkSubtasksPrivate flips every subtask of a task private. One-shot
// downward privacy cascade.
func (s *Store) MarkSubtasksPrivate(ctx context.Context, taskID uuid.UUID) error {
	_, err := s.exec(ctx,
		`UPDATE subtasks SET is_private = TRUE WHERE task_id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("mark subtasks private: %w", err)
	}
	return nil
}
