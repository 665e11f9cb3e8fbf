package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"todo/internal/client"
	"todo/internal/config"
	"todo/internal/store"
	"todo/internal/validation"
)

// App represents the main CLI application
type App struct {
	store *store.Store
	out   io.Writer
}

// NewApp creates a new CLI application around an existing store
func NewApp(st *store.Store, out io.Writer) *App {
	if out == nil {
		out = os.Stdout
	}
	return &App{
		store: st,
		out:   out,
	}
}

// NewAppWithConfig builds the task store for api from the configuration
// and wraps it in an App.
func NewAppWithConfig(api client.API, cfg *config.Config, out io.Writer, logger *log.Logger) *App {
	opts := []store.Option{store.WithLogger(logger)}
	if cfg != nil {
		opts = append(opts,
			store.WithRefreshOnMutate(cfg.Store.RefreshOnMutate),
			store.WithValidator(validation.NewTaskValidatorWithConfig(cfg)),
		)
	}
	return NewApp(store.New(api, opts...), out)
}

// Store returns the task store the commands operate on
func (a *App) Store() *store.Store {
	return a.store
}
