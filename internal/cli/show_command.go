package cli

import (
	"context"
	"fmt"
	"io"

	"todo/internal/errors"
	"todo/internal/store"
)

// ShowCommand handles the show command
type ShowCommand struct {
	store *store.Store
	out   io.Writer
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{store: app.store, out: app.out}
}

// Execute reads one task from the server and prints its details
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "show", "usage: todo show <id>")
	}
	task, err := c.store.GetTask(ctx, args[0])
	if err != nil {
		return err
	}

	created := task.CreatedAt
	if t := task.CreatedTime(); !t.IsZero() {
		created = t.Local().Format("2006-01-02 15:04:05")
	}

	fmt.Fprintf(c.out, "ID:          %s\n", task.ID)
	fmt.Fprintf(c.out, "Title:       %s\n", task.Title)
	if task.Description != "" {
		fmt.Fprintf(c.out, "Description: %s\n", task.Description)
	}
	fmt.Fprintf(c.out, "Completed:   %s\n", yesNo(task.IsCompleted))
	fmt.Fprintf(c.out, "Important:   %s\n", yesNo(task.IsImportant))
	fmt.Fprintf(c.out, "Created:     %s\n", created)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
