package cli

import (
	"context"
	"fmt"
	"net"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"todo/internal/api"
	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/repository/sqlite"
	"todo/internal/server"
	"todo/internal/validation"
)

// ServerCommand is the root command of the reference task server
type ServerCommand struct {
	cmd      *cobra.Command
	config   *config.Config
	logger   *log.Logger
	listener net.Listener
}

// ServerOption configures the server command
type ServerOption func(*ServerCommand)

// WithListener serves on ln instead of listening on the configured address.
func WithListener(ln net.Listener) ServerOption {
	return func(s *ServerCommand) {
		s.listener = ln
	}
}

// NewServerCommand creates the todo-server command
func NewServerCommand(opts ...ServerOption) *ServerCommand {
	s := &ServerCommand{}
	for _, opt := range opts {
		opt(s)
	}

	s.cmd = &cobra.Command{
		Use:   "todo-server",
		Short: "Serve the task API over HTTP",
		Long: `todo-server stores tasks in SQLite and serves them over HTTP.

ROUTES:
  GET    /health
  GET    /tasks?search=<text>
  GET    /tasks/<id>
  POST   /tasks
  PUT    /tasks/<id>
  DELETE /tasks/<id>

COMMANDS:
  todo-server migrate status   Print the database schema version
  todo-server migrate down     Revert the newest migration

ENVIRONMENT:
  TODO_ENV                     development (./todo.db), testing (in memory)
                               or production (default, uses TODO_DB_DIR)
  TODO_SERVER_ADDR             Listen address (default: :3000)
  TODO_DB_DIR                  Database directory (default: ~/.todo)
  TODO_DB_FILENAME             Database file name (default: todo.db)
  TODO_LOG_LEVEL               debug, info, warn, error (default: info)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd)
		},
	}

	flags := s.cmd.PersistentFlags()
	flags.String("config", "", "Config file (overrides TODO_CONFIG)")
	flags.String("addr", "", "Listen address (overrides TODO_SERVER_ADDR)")
	flags.String("db-dir", "", "Database directory (overrides TODO_DB_DIR)")
	flags.String("db-filename", "", "Database file name, :memory: for none (overrides TODO_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Read query timeout (overrides TODO_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Write query timeout (overrides TODO_DB_WRITE_TIMEOUT)")
	flags.String("log-level", "", "Log level (overrides TODO_LOG_LEVEL)")
	flags.String("log-format", "", "Log format: text, json, logfmt (overrides TODO_LOG_FORMAT)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	s.cmd.AddCommand(s.migrateCommand())

	return s
}

// ExecuteContext runs the server until ctx is cancelled
func (s *ServerCommand) ExecuteContext(ctx context.Context) error {
	return s.cmd.ExecuteContext(ctx)
}

// Command exposes the cobra command, for tests
func (s *ServerCommand) Command() *cobra.Command {
	return s.cmd
}

// Config returns the configuration loaded for the last run
func (s *ServerCommand) Config() *config.Config {
	return s.config
}

// open loads the configuration with flag overrides, builds the logger and
// opens the repository for the TODO_ENV environment.
func (s *ServerCommand) open(cmd *cobra.Command) (sqlite.Repository, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.NewLoader().
		WithConfigFile(configFile).
		LoadWithOverrides(overridesFromFlags(cmd.Flags()))
	if err != nil {
		return nil, err
	}
	s.config = cfg

	if cfg.Application.Verbose {
		cfg.Log.Level = "debug"
	}
	s.logger = logging.FromConfig(cmd.ErrOrStderr(), cfg.Log, "todo-server")

	factory := config.NewRepositoryFactory(config.GetEnvironment())
	repo, err := factory.CreateRepository(cfg)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("database opened", "env", factory.Environment(), "path", cfg.GetDatabasePath())
	return repo, nil
}

func (s *ServerCommand) run(cmd *cobra.Command) error {
	repo, err := s.open(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()
	cfg := s.config

	if s.logger.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(
		api.New(repo, api.WithValidator(validation.NewTaskValidatorWithConfig(cfg))),
		server.WithLogger(s.logger),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if s.listener != nil {
		return srv.Serve(ctx, s.listener)
	}
	return srv.Run(ctx, cfg.Server.Addr)
}

// migrateCommand reports or reverts the database schema version
func (s *ServerCommand) migrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Inspect or revert the database schema",
		Long: `Opening the database always applies pending migrations first.

Examples:
  todo-server migrate status   # Print the schema version
  todo-server migrate down     # Revert the newest migration`,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withMigrator(cmd, func(ctx context.Context, m sqlite.Migrator) error {
				version, err := m.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
				return nil
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revert the newest migration",
		Long:  "Revert the newest migration. Its data is lost; the server re-applies it on next start.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withMigrator(cmd, func(ctx context.Context, m sqlite.Migrator) error {
				version, err := m.RollbackSchema(ctx)
				if err != nil {
					return err
				}
				if version == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to revert")
					return nil
				}
				s.logger.Info("migration reverted", "version", version)
				fmt.Fprintf(cmd.OutOrStdout(), "reverted migration %d\n", version)
				return nil
			})
		},
	}

	migrateCmd.AddCommand(statusCmd, downCmd)
	return migrateCmd
}

func (s *ServerCommand) withMigrator(cmd *cobra.Command, fn func(ctx context.Context, m sqlite.Migrator) error) error {
	repo, err := s.open(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	m, ok := repo.(sqlite.Migrator)
	if !ok {
		return fmt.Errorf("repository %T has no versioned schema", repo)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, m)
}
