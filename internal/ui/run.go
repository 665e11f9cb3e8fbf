package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/store"
)

// Run starts the TUI on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, st *store.Store) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	program := tea.NewProgram(NewModel(ctx, st), tea.WithAltScreen(), tea.WithContext(ctx))
	st.Subscribe(func() { program.Send(StoreChangedMsg{}) })

	_, err := program.Run()
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
