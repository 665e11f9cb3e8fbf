package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"todo/internal/domain"
	"todo/internal/store"
)

// ListCommand handles the list command
type ListCommand struct {
	store *store.Store
	out   io.Writer
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{store: app.store, out: app.out}
}

// Execute fetches the tasks matching the joined arguments and prints them.
// A failed fetch is logged by the store and leaves nothing to print.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	search := strings.Join(args, " ")
	c.store.FetchTasks(ctx, search)
	printTasks(c.out, c.store.Tasks())
	return nil
}

// printTasks prints one line per task in the format:
// [x] ! title (id)
// followed by an indented description line when there is one.
func printTasks(w io.Writer, tasks []domain.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found")
		return
	}
	for _, task := range tasks {
		fmt.Fprintln(w, formatTaskLine(task))
		if task.Description != "" {
			fmt.Fprintf(w, "      %s\n", task.Description)
		}
	}
}

func formatTaskLine(task domain.Task) string {
	check := "[ ]"
	if task.IsCompleted {
		check = "[x]"
	}
	mark := " "
	if task.IsImportant {
		mark = "!"
	}
	return fmt.Sprintf("%s %s %s (%s)", check, mark, task.Title, task.ID)
}
