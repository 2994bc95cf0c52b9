package backend

import (
	"context"

	"agenda/internal/repository"
)

// Store is the persistence contract: a backend loads the planner snapshot
// at startup and writes it back after changes.
type Store interface {
	Load(ctx context.Context) (repository.Snapshot, error)
	Save(ctx context.Context, snap repository.Snapshot) error
	Close() error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// StoreResult contains the store instance and optional cleanup function
type StoreResult struct {
	Store   Store
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*StoreResult, error)
}

// Config holds configuration for store creation
type Config struct {
	Type StoreType

	// SQLite specific
	SQLiteDBPath string

	// File specific
	DataFilePath string
}

// StoreType represents the type of persistence backend
type StoreType string

const (
	SQLiteStore StoreType = "sqlite"
	FileStore   StoreType = "file"
)

// String implements fmt.Stringer
func (st StoreType) String() string {
	return string(st)
}

// IsValid returns true if the store type is valid
func (st StoreType) IsValid() bool {
	switch st {
	case SQLiteStore, FileStore:
		return true
	default:
		return false
	}
}
