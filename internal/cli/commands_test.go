package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/client/clienttest"
	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/store"
)

var (
	milk = domain.Task{ID: "a1", Title: "Buy milk", Description: "2 litres", IsImportant: true, CreatedAt: "2024-01-15T10:00:00Z"}
	dog  = domain.Task{ID: "b2", Title: "Walk dog", IsCompleted: true, CreatedAt: "2024-01-15T11:00:00Z"}
)

func setupTestApp(t *testing.T, seed ...domain.Task) (*App, *clienttest.FakeAPI, *bytes.Buffer) {
	t.Helper()
	api := clienttest.New()
	api.Seed(seed...)
	out := &bytes.Buffer{}
	return NewApp(store.New(api), out), api, out
}

func TestListCommand_Execute(t *testing.T) {
	t.Run("lists all tasks when no arguments", func(t *testing.T) {
		app, api, out := setupTestApp(t, milk, dog)

		require.NoError(t, NewListCommand(app).Execute(context.Background(), nil))

		assert.Equal(t, "", api.Calls()[0].Search)
		assert.Equal(t, "[ ] ! Buy milk (a1)\n      2 litres\n[x]   Walk dog (b2)\n", out.String())
	})

	t.Run("joins arguments into the search text", func(t *testing.T) {
		app, api, out := setupTestApp(t, milk, dog)

		require.NoError(t, NewListCommand(app).Execute(context.Background(), []string{"walk", "DOG"}))

		assert.Equal(t, "walk DOG", api.Calls()[0].Search)
		assert.Contains(t, out.String(), "Walk dog")
		assert.NotContains(t, out.String(), "Buy milk")
	})

	t.Run("handles empty results", func(t *testing.T) {
		app, _, out := setupTestApp(t)

		require.NoError(t, NewListCommand(app).Execute(context.Background(), []string{"nothing"}))
		assert.Equal(t, "No tasks found\n", out.String())
	})
}

func TestAddCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("creates task with flags", func(t *testing.T) {
		app, api, out := setupTestApp(t)
		cmd := NewAddCommand(app)
		cmd.Description = "semi-skimmed"
		cmd.Important = true

		require.NoError(t, cmd.Execute(ctx, []string{"Buy", "milk"}))

		tasks := api.Snapshot()
		require.Len(t, tasks, 1)
		assert.Equal(t, "Buy milk", tasks[0].Title)
		assert.Equal(t, "semi-skimmed", tasks[0].Description)
		assert.True(t, tasks[0].IsImportant)
		assert.False(t, tasks[0].IsCompleted)
		assert.Equal(t, "Added task: Buy milk\n", out.String())
	})

	t.Run("blank title is rejected before any request", func(t *testing.T) {
		app, api, _ := setupTestApp(t)

		err := NewAddCommand(app).Execute(ctx, []string{"   "})
		require.Error(t, err)
		assert.Equal(t, "title is required", NewErrorHandler().HandleSimple(err).Error())
		assert.Empty(t, api.Calls())
	})

	t.Run("server failure is generic", func(t *testing.T) {
		app, api, _ := setupTestApp(t)
		api.CreateErr = errors.NewRemoteError("create task", 500, "database locked")

		err := NewAddCommand(app).Execute(ctx, []string{"x"})
		require.Error(t, err)
		assert.Equal(t, "Failed to create task.", NewErrorHandler().HandleSimple(err).Error())
	})

	t.Run("no arguments", func(t *testing.T) {
		app, _, _ := setupTestApp(t)
		err := NewAddCommand(app).Execute(ctx, nil)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	})
}

func TestEditCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("sends only the given fields", func(t *testing.T) {
		app, api, out := setupTestApp(t, milk)
		cmd := NewEditCommand(app)
		cmd.Completed = domain.BoolPtr(true)

		require.NoError(t, cmd.Execute(ctx, []string{"a1"}))

		got := api.Snapshot()[0]
		assert.True(t, got.IsCompleted)
		assert.Equal(t, milk.Title, got.Title)
		assert.Equal(t, milk.Description, got.Description)
		assert.Equal(t, "Updated task: a1\n", out.String())
	})

	t.Run("unknown id", func(t *testing.T) {
		app, _, _ := setupTestApp(t)
		cmd := NewEditCommand(app)
		cmd.Title = domain.StringPtr("new")

		err := cmd.Execute(ctx, []string{"nope"})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrNotFound)
		assert.Equal(t, "Failed to update task.", NewErrorHandler().HandleSimple(err).Error())
	})

	t.Run("nothing to change", func(t *testing.T) {
		app, api, _ := setupTestApp(t, milk)

		err := NewEditCommand(app).Execute(ctx, []string{"a1"})
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
		assert.Empty(t, api.Calls())
	})

	t.Run("blank title", func(t *testing.T) {
		app, api, _ := setupTestApp(t, milk)
		cmd := NewEditCommand(app)
		cmd.Title = domain.StringPtr(" ")

		err := cmd.Execute(ctx, []string{"a1"})
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
		assert.Empty(t, api.Calls())
	})
}

func TestDeleteCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app, api, out := setupTestApp(t, milk, dog)
	cmd := NewDeleteCommand(app)

	require.NoError(t, cmd.Execute(ctx, []string{"a1"}))
	assert.Equal(t, []domain.Task{dog}, api.Snapshot())
	assert.Equal(t, "Deleted task: a1\n", out.String())

	err := cmd.Execute(ctx, []string{"a1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Equal(t, "Failed to delete task.", NewErrorHandler().HandleSimple(err).Error())

	err = cmd.Execute(ctx, nil)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestShowCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app, _, out := setupTestApp(t, milk)

	require.NoError(t, NewShowCommand(app).Execute(ctx, []string{"a1"}))
	assert.Contains(t, out.String(), "Title:       Buy milk")
	assert.Contains(t, out.String(), "Description: 2 litres")
	assert.Contains(t, out.String(), "Important:   yes")
	assert.Contains(t, out.String(), "Completed:   no")

	err := NewShowCommand(app).Execute(ctx, []string{"zz"})
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, "task not found: zz", NewErrorHandler().HandleSimple(err).Error())
}

func TestShowCommand_ServerFailureIsNotNotFound(t *testing.T) {
	app, api, out := setupTestApp(t, milk)
	api.GetErr = errors.NewNetworkError("get task", stderrors.New("connection refused"))

	err := NewShowCommand(app).Execute(context.Background(), []string{"a1"})
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))
	assert.ErrorIs(t, err, errors.ErrFetchFailed)
	assert.Equal(t, "Failed to load tasks.", NewErrorHandler().HandleSimple(err).Error())
	assert.Empty(t, out.String())
}

func TestOutputCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("csv", func(t *testing.T) {
		app, _, out := setupTestApp(t, milk, dog)
		require.NoError(t, NewOutputCommand(app).Execute(ctx, []string{"format=csv"}))

		records, err := csv.NewReader(out).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"ID", "Title", "Description", "Completed", "Important", "Created At"}, records[0])
		assert.Equal(t, []string{"a1", "Buy milk", "2 litres", "false", "true", "2024-01-15T10:00:00Z"}, records[1])
	})

	t.Run("json", func(t *testing.T) {
		app, _, out := setupTestApp(t, milk, dog)
		require.NoError(t, NewOutputCommand(app).Execute(ctx, []string{"format=json"}))

		var tasks []domain.Task
		require.NoError(t, json.Unmarshal(out.Bytes(), &tasks))
		assert.Equal(t, []domain.Task{milk, dog}, tasks)
	})

	t.Run("empty json is an array", func(t *testing.T) {
		app, _, out := setupTestApp(t)
		require.NoError(t, NewOutputCommand(app).Execute(ctx, []string{"format=json"}))
		assert.JSONEq(t, "[]", out.String())
	})

	t.Run("fetch failure fails the export", func(t *testing.T) {
		for _, format := range []string{"format=csv", "format=json"} {
			app, api, out := setupTestApp(t, milk, dog)
			api.ListErr = errors.NewNetworkError("list tasks", stderrors.New("connection refused"))

			err := NewOutputCommand(app).Execute(ctx, []string{format})
			require.Error(t, err, format)
			assert.ErrorIs(t, err, errors.ErrFetchFailed, format)
			assert.Empty(t, out.String(), format)
		}
	})

	t.Run("bad format", func(t *testing.T) {
		app, api, _ := setupTestApp(t)
		for _, arg := range []string{"csv", "format=xml"} {
			err := NewOutputCommand(app).Execute(ctx, []string{arg})
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput), arg)
		}
		assert.Empty(t, api.Calls())
	})
}

func TestListCommand_FetchFailureIsNotAnError(t *testing.T) {
	app, api, out := setupTestApp(t, milk)
	api.ListErr = stderrors.New("connection refused")

	require.NoError(t, NewListCommand(app).Execute(context.Background(), nil))
	assert.Equal(t, "No tasks found\n", out.String())
}
