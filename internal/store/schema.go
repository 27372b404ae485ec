// internal/store/schema.go
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements is kept portable: it runs unchanged against PostgreSQL
// in production and SQLite in the test suite. Timestamps are written by the
// application in UTC, identifiers are client-generated UUIDs stored as text.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		UNIQUE (owner_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		due_date TIMESTAMP,
		priority INTEGER,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		assigned_to TEXT REFERENCES users(id) ON DELETE SET NULL,
		is_private BOOLEAN NOT NULL DEFAULT FALSE,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS subtasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		due_date TIMESTAMP,
		priority INTEGER,
		task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		is_private BOOLEAN NOT NULL DEFAULT FALSE,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_tags (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (project_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS task_tags (
		task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (task_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS subtask_tags (
		subtask_id TEXT NOT NULL REFERENCES subtasks(id) ON DELETE CASCADE,
		tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (subtask_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id TEXT PRIMARY KEY,
		user_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		event_type TEXT NOT NULL,
		description TEXT NOT NULL,
		severity TEXT NOT NULL,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks (project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_subtasks_task ON subtasks (task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_events_user ON audit_events (user_id)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("run migration statement: %w", err)
		}
	}
	return nil
}
