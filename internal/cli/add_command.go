package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/store"
)

// AddCommand handles the add command
type AddCommand struct {
	store *store.Store
	out   io.Writer

	// Set from flags
	Description string
	Important   bool
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{store: app.store, out: app.out}
}

// Execute creates a task titled with the joined arguments
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "add", "usage: todo add \"your title here\"")
	}
	title := strings.Join(args, " ")

	err := c.store.AddTask(ctx, domain.NewTask{
		Title:       title,
		Description: c.Description,
		IsImportant: c.Important,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Added task: %s\n", strings.TrimSpace(title))
	return nil
}
