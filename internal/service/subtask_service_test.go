// internal/service/subtask_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge/pkg/audit"
)

func TestSubTaskService_CreateGuard(t *testing.T) {
	st, _, tasks, subtasks, _ := newTestServices(t)
	ctx := context.Background()

	alice := createTestUser(t, st, "alice@example.com", "alice")
	bob := createTestUser(t, st, "bob@example.com", "bob")
	carol := createTestUser(t, st, "carol@example.com", "carol")
	project := createTestProject(t, st, alice.ID, "Alice's project")
	task, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{
		Title:      "Parent task",
		AssignedTo: ptr(bob.ID),
	})
	require.NoError(t, err)

	t.Run("owner creates", func(t *testing.T) {
		sub, err := subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{Title: "By owner"})
		require.NoError(t, err)
		assert.Equal(t, task.ID, sub.TaskID)
		assert.Equal(t, alice.ID, sub.OwnerID)
	})

	t.Run("task assignee creates", func(t *testing.T) {
		sub, err := subtasks.Create(ctx, bob.ID, task.ID, SubTaskInput{Title: "By assignee"})
		require.NoError(t, err)
		assert.Equal(t, bob.ID, sub.OwnerID)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		_, err := subtasks.Create(ctx, carol.ID, task.ID, SubTaskInput{Title: "By stranger"})
		assert.True(t, IsPermission(err))

		events, auditErr := st.ListAuditEventsByUser(ctx, carol.ID)
		require.NoError(t, auditErr)
		require.NotEmpty(t, events)
		assert.Equal(t, audit.EventTypePermissionDenied, events[0].EventType)
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		_, err := subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{Title: ""})
		assert.True(t, IsValidation(err))
	})
}

func TestSubTaskService_PrivacyInheritance(t *testing.T) {
	st, _, tasks, subtasks, _ := newTestServices(t)
	ctx := context.Background()

	alice := createTestUser(t, st, "alice@example.com", "alice")
	project := createTestProject(t, st, alice.ID, "Alice's project")

	t.Run("subtask under a private task is forced private", func(t *testing.T) {
		task, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{Title: "Hidden", IsPrivate: true})
		require.NoError(t, err)

		sub, err := subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{Title: "Step", IsPrivate: false})
		require.NoError(t, err)
		assert.True(t, sub.IsPrivate)
	})

	t.Run("private subtask privatizes a public task", func(t *testing.T) {
		task, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{Title: "Visible"})
		require.NoError(t, err)

		_, err = subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{Title: "Secret step", IsPrivate: true})
		require.NoError(t, err)

		parent, err := tasks.Get(ctx, alice.ID, project.ID, task.ID)
		require.NoError(t, err)
		assert.True(t, parent.IsPrivate)
	})

	t.Run("marking a subtask private privatizes its task", func(t *testing.T) {
		task, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{Title: "Open"})
		require.NoError(t, err)
		sub, err := subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{Title: "Step"})
		require.NoError(t, err)

		_, err = subtasks.Update(ctx, alice.ID, task.ID, sub.ID, SubTaskUpdate{IsPrivate: ptr(true)})
		require.NoError(t, err)

		parent, err := tasks.Get(ctx, alice.ID, project.ID, task.ID)
		require.NoError(t, err)
		assert.True(t, parent.IsPrivate)
	})
}

func TestSubTaskService_CompletionPropagation(t *testing.T) {
	st, _, tasks, subtasks, _ := newTestServices(t)
	ctx := context.Background()

	alice := createTestUser(t, st, "alice@example.com", "alice")
	project := createTestProject(t, st, alice.ID, "Alice's project")
	task, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{Title: "Ship it"})
	require.NoError(t, err)

	// A single subtask created already complete completes the task.
	sub, err := subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{Title: "Only step", IsCompleted: true})
	require.NoError(t, err)

	parent, err := tasks.Get(ctx, alice.ID, project.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, parent.IsCompleted)

	// A new incomplete subtask reopens it.
	_, err = subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{Title: "Forgotten step"})
	require.NoError(t, err)

	parent, err = tasks.Get(ctx, alice.ID, project.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, parent.IsCompleted)

	// Reopening the completed subtask leaves everything open.
	_, err = subtasks.Update(ctx, alice.ID, task.ID, sub.ID, SubTaskUpdate{IsCompleted: ptr(false)})
	require.NoError(t, err)
	listed, err := subtasks.List(ctx, alice.ID, task.ID, "")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, s := range listed {
		assert.False(t, s.IsCompleted)
	}
}

func TestSubTaskService_VisibilityAndScope(t *testing.T) {
	st, _, tasks, subtasks, _ := newTestServices(t)
	ctx := context.Background()

	alice := createTestUser(t, st, "alice@example.com", "alice")
	bob := createTestUser(t, st, "bob@example.com", "bob")
	project := createTestProject(t, st, alice.ID, "Alice's project")
	task, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{Title: "Parent"})
	require.NoError(t, err)

	visible, err := subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{Title: "Anyone may see"})
	require.NoError(t, err)
	hidden, err := subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{Title: "Owner only", IsPrivate: true})
	require.NoError(t, err)

	t.Run("stranger sees only public subtasks", func(t *testing.T) {
		listed, err := subtasks.List(ctx, bob.ID, task.ID, "")
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, visible.ID, listed[0].ID)

		_, err = subtasks.Get(ctx, bob.ID, task.ID, hidden.ID)
		assert.True(t, IsNotFound(err))
	})

	t.Run("wrong task scope is not found", func(t *testing.T) {
		other, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{Title: "Other parent"})
		require.NoError(t, err)
		_, err = subtasks.Get(ctx, alice.ID, other.ID, visible.ID)
		assert.True(t, IsNotFound(err))
	})
}

func TestSubTaskService_UpdateAndDeleteGuard(t *testing.T) {
	st, _, tasks, subtasks, _ := newTestServices(t)
	ctx := context.Background()

	alice := createTestUser(t, st, "alice@example.com", "alice")
	bob := createTestUser(t, st, "bob@example.com", "bob")
	carol := createTestUser(t, st, "carol@example.com", "carol")
	project := createTestProject(t, st, alice.ID, "Alice's project")
	task, err := tasks.Create(ctx, alice.ID, project.ID, TaskInput{
		Title:      "Parent",
		AssignedTo: ptr(bob.ID),
	})
	require.NoError(t, err)
	sub, err := subtasks.Create(ctx, alice.ID, task.ID, SubTaskInput{
		Title: "Step",
		Tags:  []string{"chore"},
	})
	require.NoError(t, err)

	t.Run("task assignee may update", func(t *testing.T) {
		updated, err := subtasks.Update(ctx, bob.ID, task.ID, sub.ID, SubTaskUpdate{
			Description: ptr("on it"),
		})
		require.NoError(t, err)
		assert.Equal(t, "on it", updated.Description)
		assert.ElementsMatch(t, []string{"chore"}, tagNames(updated.Tags), "omitted tags are kept")
	})

	t.Run("stranger may not update", func(t *testing.T) {
		_, err := subtasks.Update(ctx, carol.ID, task.ID, sub.ID, SubTaskUpdate{Title: ptr("Nope")})
		assert.True(t, IsPermission(err))
	})

	t.Run("submitted tags replace", func(t *testing.T) {
		updated, err := subtasks.Update(ctx, alice.ID, task.ID, sub.ID, SubTaskUpdate{
			Tags: []string{"focus", "chore"},
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"focus", "chore"}, tagNames(updated.Tags))
	})

	t.Run("assignee may not delete", func(t *testing.T) {
		err := subtasks.Delete(ctx, bob.ID, task.ID, sub.ID)
		assert.True(t, IsPermission(err))
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, subtasks.Delete(ctx, alice.ID, task.ID, sub.ID))
		_, err := subtasks.Get(ctx, alice.ID, task.ID, sub.ID)
		assert.True(t, IsNotFound(err))
	})
}
