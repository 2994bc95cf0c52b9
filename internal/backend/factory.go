package backend

import (
	"context"
	"fmt"
	"log/slog"

	"agenda/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new store factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*StoreResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid store type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteStore:
		return f.createSQLiteStore(config)
	case FileStore:
		return f.createFileStore(config)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteStore(config Config) (*StoreResult, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite store", "db_path", config.SQLiteDBPath)

	return &StoreResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createFileStore(config Config) (*StoreResult, error) {
	store := storage.NewFileStore(config.DataFilePath)

	f.logger.Info("Initialized file store", "path", config.DataFilePath)

	return &StoreResult{
		Store:   store,
		Cleanup: nil, // No cleanup needed for the file store
	}, nil
}
