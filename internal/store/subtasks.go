// internal/store/subtasks.go
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreateSubTask(ctx context.Context, st *SubTask) error {
	_, err := s.exec(ctx,
		`INSERT INTO subtasks (id, title, description, due_date, priority, task_id,
		                       owner_id, is_private, is_completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.Title, st.Description, st.DueDate, st.Priority, st.TaskID,
		st.OwnerID, st.IsPrivate, st.IsCompleted, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert subtask: %w", err)
	}
	return nil
}

func (s *Store) SubTaskByID(ctx context.Context, id uuid.UUID) (*SubTask, error) {
	var st SubTask
	if err := s.get(ctx, &st, `SELECT * FROM subtasks WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &st, nil
}

// ListVisibleSubTasks returns a task's subtasks visible to actor: owned by
// actor, assigned through the parent task, or not private.
func (s *Store) ListVisibleSubTasks(ctx context.Context, taskID, actor uuid.UUID, query string) ([]SubTask, error) {
	q := `SELECT st.* FROM subtasks st
	      JOIN tasks t ON t.id = st.task_id
	      WHERE st.task_id = ?
	        AND (st.owner_id = ? OR t.assigned_to = ? OR st.is_private = FALSE)`
	args := []interface{}{taskID, actor, actor}

	if query != "" {
		q += ` AND (st.title LIKE ? OR st.description LIKE ? OR EXISTS (
			SELECT 1 FROM subtask_tags sg JOIN tags g ON g.id = sg.tag_id
			WHERE sg.subtask_id = st.id AND g.name LIKE ?))`
		pattern := "%" + query + "%"
		args = append(args, pattern, pattern, pattern)
	}
	q += ` ORDER BY st.created_at`

	subtasks := []SubTask{}
	if err := s.selectAll(ctx, &subtasks, q, args...); err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	return subtasks, nil
}

func (s *Store) UpdateSubTask(ctx context.Context, st *SubTask) error {
	_, err := s.exec(ctx,
		`UPDATE subtasks SET title = ?, description = ?, due_date = ?, priority = ?,
		                     is_private = ?, is_completed = ?, updated_at = ?
		 WHERE id = ?`,
		st.Title, st.Description, st.DueDate, st.Priority,
		st.IsPrivate, st.IsCompleted, st.UpdatedAt, st.ID)
	if err != nil {
		return fmt.Errorf("update subtask: %w", err)
	}
	return nil
}

func (s *Store) DeleteSubTask(ctx context.Context, id uuid.UUID) error {
	_, err := s.exec(ctx, `DELETE FROM subtasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}
	return nil
}
