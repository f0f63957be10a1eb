// Package cli provides common CLI initialization utilities shared by the
// cashflow entrypoint: logging, .env loading, config validation and
// backend setup.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"cashflow/internal/backend"
	"cashflow/internal/config"
	"cashflow/internal/storage"
)

// SetupLogger initializes structured logging at the given level and sets
// it as the default logger.
func SetupLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// OpenStore opens the configured storage backend.
// Returns the store or exits the process on failure.
func OpenStore(logger *slog.Logger, cfg *config.Config) storage.Store {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	store, err := backend.Open(backendCfg, logger)
	if err != nil {
		logger.Error("Failed to open storage backend", "error", err, "backend", cfg.Backend)
		os.Exit(1)
	}
	return store
}
