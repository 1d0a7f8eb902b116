package storage

import (
	"context"

	"github.com/skybi/session-report/internal/archive"
)

// Driver represents a storage driver
type Driver interface {
	// Initialize initializes the storage driver (i.e. opens a database connection)
	Initialize(ctx context.Context) error

	// Runs provides a run archive repository implementation
	Runs() archive.Repository

	// Close closes the storage driver (i.e. closes a database connection)
	Close()
}
