// internal/service/task_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge/pkg/audit"
)

func TestTaskService_CreateRequiresProjectOwner(t *testing.T) {
	st, _, tasks, _, _ := newTestServices(t)
	ctx := context.Background()

	alice := createTestUser(t, st, "alice@example.com", "alice")
	bob := createTestUser(t, st, "bob@example.com", "bob")
	project := createTestProject(t, st, alice.ID, "Alice's project")

	t.Run("owner creates", func(t *testing.T) {
		task, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{
			Title:    "Draft outline",
			Priority: ptr(2),
			Tags:     []string{"writing"},
		})
		require.NoError(t, err)
		assert.Equal(t, alice.ID, task.OwnerID)
		assert.Equal(t, project.ID, task.ProjectID)
		assert.ElementsMatch(t, []string{"writing"}, tagNames(task.Tags))
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		_, err := tasks.Create(ctx, bob.ID, project.ID, TaskInput{Title: "Sneaky"})
		assert.True(t, IsPermission(err))

		events, auditErr := st.ListAuditEventsByUser(ctx, bob.ID)
		require.NoError(t, auditErr)
		require.NotEmpty(t, events)
		assert.Equal(t, audit.EventTypePermissionDenied, events[0].EventType)
	})

	t.Run("unknown project is not found", func(t *testing.T) {
		_, err := tasks.Create(ctx, alice.ID, uuid.New(), TaskInput{Title: "Orphan"})
		assert.True(t, IsNotFound(err))
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		_, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{Title: "   "})
		assert.True(t, IsValidation(err))
	})

	t.Run("unknown assignee is rejected", func(t *testing.T) {
		_, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{
			Title:      "Unassignable",
			AssignedTo: ptr(uuid.New()),
		})
		assert.True(t, IsValidation(err))
	})
}

func TestTaskService_Visibility(t *testing.T) {
	st, _, tasks, _, _ := newTestServices(t)
	ctx := context.Background()

	alice := createTestUser(t, st, "alice@example.com", "alice")
	bob := createTestUser(t, st, "bob@example.com", "bob")
	carol := createTestUser(t, st, "carol@example.com", "carol")
	project := createTestProject(t, st, alice.ID, "Alice's project")

	public, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{Title: "Public task"})
	require.NoError(t, err)
	private, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{
		Title:      "Private task",
		IsPrivate:  true,
		AssignedTo: ptr(bob.ID),
	})
	require.NoError(t, err)

	t.Run("owner sees both", func(t *testing.T) {
		listed, err := tasks.List(ctx, alice.ID, project.ID, "")
		require.NoError(t, err)
		assert.Len(t, listed, 2)
	})

	t.Run("assignee sees the private task", func(t *testing.T) {
		listed, err := tasks.List(ctx, bob.ID, project.ID, "")
		require.NoError(t, err)
		assert.Len(t, listed, 2)

		got, err := tasks.Get(ctx, bob.ID, project.ID, private.ID)
		require.NoError(t, err)
		assert.Equal(t, "Private task", got.Title)
	})

	t.Run("stranger sees only the public task", func(t *testing.T) {
		listed, err := tasks.List(ctx, carol.ID, project.ID, "")
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, public.ID, listed[0].ID)

		_, err = tasks.Get(ctx, carol.ID, project.ID, private.ID)
		assert.True(t, IsNotFound(err), "private task reads as absent, not forbidden")
	})

	t.Run("clearing privacy restores visibility", func(t *testing.T) {
		_, err := tasks.Update(ctx, alice.ID, project.ID, private.ID, TaskUpdate{IsPrivate: ptr(false)})
		require.NoError(t, err)

		listed, err := tasks.List(ctx, carol.ID, project.ID, "")
		require.NoError(t, err)
		assert.Len(t, listed, 2)
	})
}

func TestTaskService_MutationGuard(t *testing.T) {
	st, _, tasks, _, _ := newTestServices(t)
	ctx := context.Background()

	alice := createTestUser(t, st, "alice@example.com", "alice")
	bob := createTestUser(t, st, "bob@example.com", "bob")
	carol := createTestUser(t, st, "carol@example.com", "carol")
	project := createTestProject(t, st, alice.ID, "Alice's project")

	task, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{
		Title:      "Shared work",
		AssignedTo: ptr(bob.ID),
	})
	require.NoError(t, err)

	t.Run("assignee may update", func(t *testing.T) {
		updated, err := tasks.Update(ctx, bob.ID, project.ID, task.ID, TaskUpdate{
			Description: ptr("picked up"),
		})
		require.NoError(t, err)
		assert.Equal(t, "picked up", updated.Description)
	})

	t.Run("stranger may not update", func(t *testing.T) {
		_, err := tasks.Update(ctx, carol.ID, project.ID, task.ID, TaskUpdate{Title: ptr("Mine now")})
		assert.True(t, IsPermission(err))
	})

	t.Run("assignee may not delete", func(t *testing.T) {
		err := tasks.Delete(ctx, bob.ID, project.ID, task.ID)
		assert.True(t, IsPermission(err))
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, tasks.Delete(ctx, alice.ID, project.ID, task.ID))
		_, err := tasks.Get(ctx, alice.ID, project.ID, task.ID)
		assert.True(t, IsNotFound(err))
	})
}

func TestTaskService_CompletionBlockedByOpenSubtasks(t *testing.T) {
	st, _, tasks, subtasks, _ := newTestServices(t)
	ctx := context.Background()

	alice := createTestUser(t, st, "alice@example.com", "alice")
	project := createTestProject(t, st, alice.ID, "Alice's project")
	task, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{Title: "Release"})
	require.NoError(t, err)

	subA, err := subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{Title: "Write changelog"})
	require.NoError(t, err)
	subB, err := subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{Title: "Tag release"})
	require.NoError(t, err)

	// Direct completion fails while subtasks are open, with no partial effect.
	_, err = tasks.Update(ctx, alice.ID, project.ID, task.ID, TaskUpdate{
		IsCompleted: ptr(true),
		Title:       ptr("Release v2"),
	})
	require.True(t, IsValidation(err))
	unchanged, err := tasks.Get(ctx, alice.ID, project.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, unchanged.IsCompleted)
	assert.Equal(t, "Release", unchanged.Title, "rejected update must not apply any field")

	// Completing one subtask is not enough.
	_, err = subtasks.Update(ctx, alice.ID, task.ID, subA.ID, SubTaskUpdate{IsCompleted: ptr(true)})
	require.NoError(t, err)
	current, err := tasks.Get(ctx, alice.ID, project.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, current.IsCompleted)

	// Completing the last subtask completes the task.
	_, err = subtasks.Update(ctx, alice.ID, task.ID, subB.ID, SubTaskUpdate{IsCompleted: ptr(true)})
	require.NoError(t, err)
	current, err = tasks.Get(ctx, alice.ID, project.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, current.IsCompleted)

	// Reopening a subtask reopens the task.
	_, err = subtasks.Update(ctx, alice.ID, task.ID, subA.ID, SubTaskUpdate{IsCompleted: ptr(false)})
	require.NoError(t, err)
	current, err = tasks.Get(ctx, alice.ID, project.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, current.IsCompleted)
}

func TestTaskService_PrivacyCascadesToSubtasks(t *testing.T) {
	st, _, tasks, subtasks, _ := newTestServices(t)
	ctx := context.Background()

	alice := createTestUser(t, st, "alice@example.com", "alice")
	project := createTestProject(t, st, alice.ID, "Alice's project")
	task, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{Title: "Planning"})
	require.NoError(t, err)
	sub, err := subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{Title: "Budget"})
	require.NoError(t, err)
	require.False(t, sub.IsPrivate)

	_, err = tasks.Update(ctx, alice.ID, project.ID, task.ID, TaskUpdate{IsPrivate: ptr(true)})
	require.NoError(t, err)

	got, err := subtasks.Get(ctx, alice.ID, task.ID, sub.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPrivate, "marking a task private marks its subtasks private")

	// Clearing the task's privacy leaves the subtasks as they are.
	_, err = tasks.Update(ctx, alice.ID, project.ID, task.ID, TaskUpdate{IsPrivate: ptr(false)})
	require.NoError(t, err)
	got, err = subtasks.Get(ctx, alice.ID, task.ID, sub.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPrivate)
}

func TestTaskService_UpdateFieldsAndTags(t *testing.T) {
	st, _, tasks, _, _ := newTestServices(t)
	ctx := context.Background()

	alice := createTestUser(t, st, "alice@example.com", "alice")
	project := createTestProject(t, st, alice.ID, "Alice's project")

	due := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	task, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{
		Title:   "Review PRs",
		DueDate: &due,
		Tags:    []string{"review", "daily"},
	})
	require.NoError(t, err)
	require.True(t, task.DueDate.Valid)

	t.Run("omitted tags are kept", func(t *testing.T) {
		updated, err := tasks.Update(ctx, alice.ID, project.ID, task.ID, TaskUpdate{
			Priority: ptr(1),
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"review", "daily"}, tagNames(updated.Tags))
		require.True(t, updated.Priority.Valid)
		assert.EqualValues(t, 1, updated.Priority.Int64)
	})

	t.Run("submitted tags replace", func(t *testing.T) {
		updated, err := tasks.Update(ctx, alice.ID, project.ID, task.ID, TaskUpdate{
			Tags: []string{"review"},
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"review"}, tagNames(updated.Tags))
	})

	t.Run("wrong project scope is not found", func(t *testing.T) {
		other := createTestProject(t, st, alice.ID, "Other project")
		_, err := tasks.Update(ctx, alice.ID, other.ID, task.ID, TaskUpdate{Title: ptr("Moved?")})
		assert.True(t, IsNotFound(err))
	})
}

func TestTaskService_ListSearch(t *testing.T) {
	st, _, tasks, _, _ := newTestServices(t)
	ctx := context.Background()

	alice := createTestUser(t, st, "alice@example.com", "alice")
	project := createTestProject(t, st, alice.ID, "Alice's project")

	_, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{Title: "Fix login bug", Tags: []string{"urgent"}})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, alice.ID, project.ID, TaskInput{Title: "Write docs"})
	require.NoError(t, err)

	byTitle, err := tasks.List(ctx, alice.ID, project.ID, "login")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Fix login bug", byTitle[0].Title)

	byTag, err := tasks.List(ctx, alice.ID, project.ID, "urgent")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Fix login bug", byTag[0].Title)

	all, err := tasks.List(ctx, alice.ID, project.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
