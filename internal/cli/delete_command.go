package cli

import (
	"context"
	"fmt"
	"io"

	"todo/internal/errors"
	"todo/internal/store"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	store *store.Store
	out   io.Writer
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{store: app.store, out: app.out}
}

// Execute deletes the task named by args[0]
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "delete", "usage: todo delete <id>")
	}

	if err := c.store.DeleteTask(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Deleted task: %s\n", args[0])
	return nil
}
