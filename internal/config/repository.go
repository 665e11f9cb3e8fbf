package config

import (
	"fmt"
	"os"

	"todo/internal/repository/sqlite"
)

// CreateRepository creates a repository instance using the configuration system
func CreateRepository(config *Config) (sqlite.Repository, error) {
	dbPath := config.GetDatabasePath()

	if dbPath != ":memory:" {
		if err := os.MkdirAll(config.Server.DBDir, os.FileMode(config.Server.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	repo, err := sqlite.NewWithOptions(dbPath, sqlite.Options{
		QueryTimeout: config.Server.QueryTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}
