package cli

import (
	"context"
	"fmt"
	"io"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/store"
)

// EditCommand handles the edit command. Only the fields whose flags were
// given are sent. Importance is fixed at creation.
type EditCommand struct {
	store *store.Store
	out   io.Writer

	// Set from flags; nil means unchanged
	Title       *string
	Description *string
	Completed   *bool
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App) *EditCommand {
	return &EditCommand{store: app.store, out: app.out}
}

// Execute applies the flag values to the task named by args[0]
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "edit", "usage: todo edit <id> [--title] [--description] [--completed]")
	}
	id := args[0]

	patch := domain.TaskPatch{
		Title:       c.Title,
		Description: c.Description,
		IsCompleted: c.Completed,
	}
	if patch.IsEmpty() {
		return errors.NewInvalidInputError("flags", "", "nothing to change")
	}

	if err := c.store.UpdateTask(ctx, id, patch); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Updated task: %s\n", id)
	return nil
}
