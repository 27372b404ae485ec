// internal/store/tags.go
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreateTag(ctx context.Context, t *Tag) error {
	_, err := s.exec(ctx,
		`INSERT INTO tags (id, name, owner_id) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.OwnerID)
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

func (s *Store) TagByID(ctx context.Context, id uuid.UUID) (*Tag, error) {
	var t Tag
	if err := s.get(ctx, &t, `SELECT * FROM tags WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) TagByOwnerAndName(ctx context.Context, owner uuid.UUID, name string) (*Tag, error) {
	var t Tag
	err := s.get(ctx, &t, `SELECT * FROM tags WHERE owner_id = ? AND name = ?`, owner, name)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTagsByOwner(ctx context.Context, owner uuid.UUID) ([]Tag, error) {
	tags := []Tag{}
	err := s.selectAll(ctx, &tags, `SELECT * FROM tags WHERE owner_id = ? ORDER BY name`, owner)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (s *Store) UpdateTag(ctx context.Context, t *Tag) error {
	_, err := s.exec(ctx, `UPDATE tags SET name = ? WHERE id = ?`, t.Name, t.ID)
	if err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	return nil
}

func (s *Store) DeleteTag(ctx context.Context, id uuid.UUID) error {
	_, err := s.exec(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// tagsFor loads the tags attached to an item through a join table.
func (s *Store) tagsFor(ctx context.Context, joinTable, joinColumn string, itemID uuid.UUID) ([]Tag, error) {
	tags := []Tag{}
	query := fmt.Sprintf(
		`SELECT t.* FROM tags t JOIN %s j ON j.tag_id = t.id WHERE j.%s = ? ORDER BY t.name`,
		joinTable, joinColumn)
	if err := s.selectAll(ctx, &tags, query, itemID); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return tags, nil
}

// replaceTagsFor clears an item's tag associations and rebuilds them from
// tagIDs. Callers run this inside Transact.
func (s *Store) replaceTagsFor(ctx context.Context, joinTable, joinColumn string, itemID uuid.UUID, tagIDs []uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, joinTable, joinColumn)
	if _, err := s.exec(ctx, query, itemID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s (%s, tag_id) VALUES (?, ?)`, joinTable, joinColumn)
	for _, tagID := range tagIDs {
		if _, err := s.exec(ctx, insert, itemID, tagID); err != nil {
			return fmt.Errorf("attach tag: %w", err)
		}
	}
	return nil
}

func (s *Store) ProjectTags(ctx context.Context, projectID uuid.UUID) ([]Tag, error) {
	return s.tagsFor(ctx, "project_tags", "project_id", projectID)
}

func (s *Store) ReplaceProjectTags(ctx context.Context, projectID uuid.UUID, tagIDs []uuid.UUID) error {
	return s.replaceTagsFor(ctx, "project_tags", "project_id", projectID, tagIDs)
}

func (s *Store) TaskTags(ctx context.Context, taskID uuid.UUID) ([]Tag, error) {
	return s.tagsFor(ctx, "task_tags", "task_id", taskID)
}

func (s *Store) ReplaceTaskTags(ctx context.Context, taskID uuid.UUID, tagIDs []uuid.UUID) error {
	return s.replaceTagsFor(ctx, "task_tags", "task_id", taskID, tagIDs)
}

func (s *Store) SubTaskTags(ctx context.Context, subtaskID uuid.UUID) ([]Tag, error) {
	return s.tagsFor(ctx, "subtask_tags", "subtask_id", subtaskID)
}

func (s *Store) ReplaceSubTaskTags(ctx context.Context, subtaskID uuid.UUID, tagIDs []uuid.UUID) error {
	return s.replaceTagsFor(ctx, "subtask_tags", "subtask_id", subtaskID, tagIDs)
}
