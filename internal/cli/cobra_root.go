package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"todo/internal/client"
	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/store"
	"todo/internal/ui"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	api    client.API
	config *config.Config
	logger *log.Logger
	app    *App

	runTUI func(ctx context.Context, st *store.Store) error
}

// RootOption configures the root command
type RootOption func(*RootCommand)

// WithAPI makes every command talk to api instead of an HTTP client built
// from the configuration.
func WithAPI(api client.API) RootOption {
	return func(r *RootCommand) {
		r.api = api
	}
}

// WithTUIRunner replaces the function that runs the interactive interface.
func WithTUIRunner(run func(ctx context.Context, st *store.Store) error) RootOption {
	return func(r *RootCommand) {
		if run != nil {
			r.runTUI = run
		}
	}
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(opts ...RootOption) *RootCommand {
	root := &RootCommand{
		runTUI: ui.Run,
	}
	for _, opt := range opts {
		opt(root)
	}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A command-line client for a to-do task server",
		Long: `todo keeps a list of tasks on a task server and lets you browse and change it.

EXAMPLES:
  todo list                                # List all tasks
  todo list milk                           # Tasks whose title or description contains "milk"
  todo add "Buy milk" -d "2 litres" --important
  todo edit <id> --completed               # Mark a task as done
  todo delete <id>                         # Delete a task
  todo tui                                 # Interactive interface

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

  The config file is TOML, read from --config, TODO_CONFIG or
  $XDG_CONFIG_HOME/todo/config.toml (~/.config/todo/config.toml).

  Environment:
    TODO_API_BASE_URL                      Task server URL (default: http://localhost:3000)
    TODO_API_REQUEST_TIMEOUT               Per-request timeout, 0 disables (default: 15s)
    TODO_STORE_REFRESH_ON_MUTATE           Re-fetch after edit and delete (default: false)
    TODO_LOG_LEVEL                         debug, info, warn, error (default: info)
    TODO_LOG_FORMAT                        text, json, logfmt (default: text)
    TODO_APP_TIMEOUT                       Command timeout (default: 60s)
    TODO_DEBUG                             Force debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration and apply flag overrides before any command runs
			return root.setup(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// ExecuteContext runs the root command with ctx as the parent of every
// command context.
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// Command exposes the cobra command, for tests and completion generation
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Config returns the configuration loaded for the last run
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// Logger returns the logger built for the last run
func (r *RootCommand) Logger() *log.Logger {
	return r.logger
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (overrides TODO_CONFIG)")

	// API configuration
	flags.String("api-url", "", "Task server base URL (overrides TODO_API_BASE_URL)")
	flags.Duration("request-timeout", 0, "Per-request timeout, 0 disables (overrides TODO_API_REQUEST_TIMEOUT)")

	// Store configuration
	flags.Bool("refresh-on-mutate", false, "Re-fetch tasks after edit and delete (overrides TODO_STORE_REFRESH_ON_MUTATE)")

	// Log configuration
	flags.String("log-level", "", "Log level (overrides TODO_LOG_LEVEL)")
	flags.String("log-format", "", "Log format: text, json, logfmt (overrides TODO_LOG_FORMAT)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides TODO_APP_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides TODO_APP_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	listCmd := &cobra.Command{
		Use:   "list [search...]",
		Short: "List tasks",
		Long: `List tasks in creation order.

Arguments are joined into a search text matched case-insensitively
against titles and descriptions.

Examples:
  todo list              # List all tasks
  todo list buy milk     # Tasks containing "buy milk"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.execute(cmd, NewListCommand(r.app), args)
		},
	}

	addHandler := &AddCommand{}
	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Long:  "Add a task with the given title. The title must not be blank.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := NewAddCommand(r.app)
			h.Description = addHandler.Description
			h.Important = addHandler.Important
			return r.execute(cmd, h, args)
		},
	}
	addCmd.Flags().StringVarP(&addHandler.Description, "description", "d", "", "Task description")
	addCmd.Flags().BoolVarP(&addHandler.Important, "important", "i", false, "Mark the task as important")

	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Change the fields of a task. Only the flags you give are sent.

Examples:
  todo edit <id> --completed
  todo edit <id> --title "Buy oat milk" --completed=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := NewEditCommand(r.app)
			flags := cmd.Flags()
			if flags.Changed("title") {
				v, _ := flags.GetString("title")
				h.Title = &v
			}
			if flags.Changed("description") {
				v, _ := flags.GetString("description")
				h.Description = &v
			}
			if flags.Changed("completed") {
				v, _ := flags.GetBool("completed")
				h.Completed = &v
			}
			return r.execute(cmd, h, args)
		},
	}
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().StringP("description", "d", "", "New description")
	editCmd.Flags().Bool("completed", false, "Mark as completed (--completed=false to reopen)")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Long:  "Delete the task with the given id. This operation cannot be undone.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.execute(cmd, NewDeleteCommand(r.app), args)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.execute(cmd, NewShowCommand(r.app), args)
		},
	}

	outputCmd := &cobra.Command{
		Use:   "output format=csv|json",
		Short: "Export all tasks",
		Long: `Export every task in the specified format.

Supported formats:
  csv  - Comma-separated values
  json - JSON array as served by the task server

Example:
  todo output format=csv > tasks.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.execute(cmd, NewOutputCommand(r.app), args)
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit tasks interactively",
		Long: `Open the interactive task list.

Keys on the list: / search, n new, enter edit, r refresh, q quit.
On the edit screen: ctrl+s save, ctrl+d delete, esc back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Interactive sessions are not bounded by the command timeout
			return r.runTUI(cmd.Context(), r.app.Store())
		},
	}

	r.cmd.AddCommand(
		listCmd,
		addCmd,
		editCmd,
		deleteCmd,
		showCmd,
		outputCmd,
		tuiCmd,
	)
}

// execute runs h bounded by the application timeout
func (r *RootCommand) execute(cmd *cobra.Command, h Command, args []string) error {
	ctx, cancel := r.commandContext(cmd)
	defer cancel()
	return h.Execute(ctx, args)
}

// ReportError prints err for the user and returns the process exit code.
func (r *RootCommand) ReportError(w io.Writer, err error) int {
	return NewErrorHandler().Report(w, r.logger, err)
}

// commandContext bounds a non-interactive command by the application timeout
func (r *RootCommand) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, r.getAppTimeout())
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second // Default timeout
}

// setup loads the configuration with flag overrides, then builds the logger,
// the API client and the App every subcommand runs against.
func (r *RootCommand) setup(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.NewLoader().
		WithConfigFile(configFile).
		LoadWithOverrides(overridesFromFlags(cmd.Flags()))
	if err != nil {
		return err
	}
	r.config = cfg

	if cfg.Application.Verbose {
		cfg.Log.Level = "debug"
	}
	r.logger = logging.FromConfig(cmd.ErrOrStderr(), cfg.Log, "todo")

	api := r.api
	if api == nil {
		httpClient, err := client.New(cfg.API.BaseURL,
			client.WithTimeout(cfg.API.RequestTimeout),
			client.WithLogger(r.logger),
		)
		if err != nil {
			return err
		}
		r.logger.Debug("using task server", "url", httpClient.BaseURL())
		api = httpClient
	}

	r.app = NewAppWithConfig(api, cfg, cmd.OutOrStdout(), r.logger)
	return nil
}

// overridesFromFlags collects the flags the user actually set. Flags a
// command does not define are skipped.
func overridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	overrides := &config.ConfigOverrides{}

	if flags.Changed("api-url") {
		v, _ := flags.GetString("api-url")
		overrides.APIBaseURL = &v
	}
	if flags.Changed("request-timeout") {
		v, _ := flags.GetDuration("request-timeout")
		overrides.RequestTimeout = &v
	}
	if flags.Changed("refresh-on-mutate") {
		v, _ := flags.GetBool("refresh-on-mutate")
		overrides.RefreshOnMutate = &v
	}
	if flags.Changed("addr") {
		v, _ := flags.GetString("addr")
		overrides.ServerAddr = &v
	}
	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		overrides.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		overrides.DBFilename = &v
	}
	if flags.Changed("db-query-timeout") {
		v, _ := flags.GetDuration("db-query-timeout")
		overrides.QueryTimeout = &v
	}
	if flags.Changed("db-write-timeout") {
		v, _ := flags.GetDuration("db-write-timeout")
		overrides.WriteTimeout = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		overrides.LogLevel = &v
	}
	if flags.Changed("log-format") {
		v, _ := flags.GetString("log-format")
		overrides.LogFormat = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}

	return overrides
}
