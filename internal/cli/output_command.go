package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/store"
)

// OutputCommand handles the output command
type OutputCommand struct {
	store *store.Store
	out   io.Writer
}

// NewOutputCommand creates a new output command handler
func NewOutputCommand(app *App) *OutputCommand {
	return &OutputCommand{store: app.store, out: app.out}
}

// Execute runs the output command
func (c *OutputCommand) Execute(ctx context.Context, args []string) error {
	return c.outputTasks(ctx, args)
}

// outputTasks exports every task in the requested format
func (c *OutputCommand) outputTasks(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "output", "usage: todo output format=csv|json")
	}

	// Parse format option
	format := args[0]
	if !strings.HasPrefix(format, "format=") {
		return errors.NewInvalidInputError("format", format, "invalid format option")
	}
	format = strings.TrimPrefix(format, "format=")
	if format != "csv" && format != "json" {
		return errors.NewInvalidInputError("format", format, "unsupported format")
	}

	if err := c.store.Refresh(ctx, ""); err != nil {
		return err
	}
	tasks := c.store.Tasks()

	if format == "json" {
		return c.outputJSON(tasks)
	}
	return c.outputCSV(tasks)
}

func (c *OutputCommand) outputJSON(tasks []domain.Task) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// outputCSV outputs all tasks in CSV format
func (c *OutputCommand) outputCSV(tasks []domain.Task) error {
	writer := csv.NewWriter(c.out)

	header := []string{"ID", "Title", "Description", "Completed", "Important", "Created At"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, task := range tasks {
		row := []string{
			task.ID,
			task.Title,
			task.Description,
			strconv.FormatBool(task.IsCompleted),
			strconv.FormatBool(task.IsImportant),
			task.CreatedAt,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
