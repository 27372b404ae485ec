// internal/service/helpers_test.go
package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge/internal/store"
	"github.com/taskforge/taskforge/pkg/auth"

	_ "github.com/mattn/go-sqlite3"
)

// newTestStore opens a fresh in-memory sqlite database with the schema
// applied. Each test gets its own database.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)
	db, err := sqlx.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	require.NoError(t, store.Migrate(context.Background(), db))
	return store.New(db)
}

// createTestUser inserts a user with a hashed password.
func createTestUser(t *testing.T, st *store.Store, email, username string) *store.User {
	t.Helper()

	passwordManager := auth.NewPasswordManager()
	hashedPassword, err := passwordManager.HashPassword("TestPass123!")
	require.NoError(t, err)

	now := time.Now().UTC()
	user := &store.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user
}

// createTestProject inserts a project owned by owner.
func createTestProject(t *testing.T, st *store.Store, owner uuid.UUID, title string) *store.Project {
	t.Helper()

	now := time.Now().UTC()
	project := &store.Project{
		ID:          uuid.New(),
		Title:       title,
		Description: "test project",
		OwnerID:     owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, st.CreateProject(context.Background(), project))
	return project
}

func newTestServices(t *testing.T) (*store.Store, *ProjectService, *TaskService, *SubTaskService, *TagService) {
	t.Helper()

	st := newTestStore(t)
	auditor := NewAuditService(st)
	return st,
		NewProjectService(st, auditor),
		NewTaskService(st, auditor),
		NewSubTaskService(st, auditor),
		NewTagService(st)
}

func ptr[T any](v T) *T {
	return &v
}
