// internal/store/projects.go
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreateProject(ctx context.Context, p *Project) error {
	_, err := s.exec(ctx,
		`INSERT INTO projects (id, title, description, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.OwnerID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *Store) ProjectByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	var p Project
	if err := s.get(ctx, &p, `SELECT * FROM projects WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjectsByOwner returns the owner's projects, optionally narrowed by a
// search term matched against title, description and attached tag names.
func (s *Store) ListProjectsByOwner(ctx context.Context, owner uuid.UUID, query string) ([]Project, error) {
	q := `SELECT p.* FROM projects p WHERE p.owner_id = ?`
	args := []interface{}{owner}

	if query != "" {
		q += ` AND (p.title LIKE ? OR p.description LIKE ? OR EXISTS (
			SELECT 1 FROM project_tags pt JOIN tags t ON t.id = pt.tag_id
			WHERE pt.project_id = p.id AND t.name LIKE ?))`
		pattern := "%" + query + "%"
		args = append(args, pattern, pattern, pattern)
	}
	q += ` ORDER BY p.created_at`

	projects := []Project{}
	if err := s.selectAll(ctx, &projects, q, args...); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// ListProjects returns every project regardless of owner. Backs the public
// discovery path only.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	projects := []Project{}
	err := s.selectAll(ctx, &projects, `SELECT * FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list all projects: %w", err)
	}
	return projects, nil
}

func (s *Store) UpdateProject(ctx context.Context, p *Project) error {
	_, err := s.exec(ctx,
		`UPDATE projects SET title = ?, description = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Description, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// DeleteProject removes a project; tasks, subtasks and tag associations go
// with it through the schema's cascading foreign keys.
func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	_, err := s.exec(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
