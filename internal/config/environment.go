package config

import (
	"fmt"
	"os"

	"todo/internal/repository/sqlite"
)

// Environment selects where the server keeps its database
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// GetEnvironment reads TODO_ENV. Anything unrecognised means production.
func GetEnvironment() Environment {
	switch Environment(os.Getenv("TODO_ENV")) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		return Production
	}
}

// RepositoryFactory creates repository instances based on environment
type RepositoryFactory struct {
	env Environment
}

// NewRepositoryFactory creates a new repository factory for the given environment
func NewRepositoryFactory(env Environment) *RepositoryFactory {
	return &RepositoryFactory{env: env}
}

// Environment returns the environment the factory was built for
func (rf *RepositoryFactory) Environment() Environment {
	return rf.env
}

// CreateRepository opens the repository for the factory's environment.
// Timeouts always come from cfg; only the location changes.
func (rf *RepositoryFactory) CreateRepository(cfg *Config) (sqlite.Repository, error) {
	switch rf.env {
	case Development:
		return rf.createDevelopmentRepository(cfg)
	case Testing:
		return rf.createTestingRepository(cfg)
	default:
		return CreateRepository(cfg)
	}
}

// createDevelopmentRepository keeps the database in the working directory
func (rf *RepositoryFactory) createDevelopmentRepository(cfg *Config) (sqlite.Repository, error) {
	repo, err := sqlite.NewWithOptions(cfg.Server.DBFilename, sqlite.Options{
		QueryTimeout: cfg.Server.QueryTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize development database: %w", err)
	}
	return repo, nil
}

// createTestingRepository uses an in-memory database that vanishes on exit
func (rf *RepositoryFactory) createTestingRepository(cfg *Config) (sqlite.Repository, error) {
	repo, err := sqlite.NewWithOptions(":memory:", sqlite.Options{
		QueryTimeout: cfg.Server.QueryTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize testing database: %w", err)
	}
	return repo, nil
}
