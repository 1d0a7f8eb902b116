package archive

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the run archive API
type Repository interface {
	// Create archives a new run
	Create(ctx context.Context, run *Run) error

	// GetByID retrieves a run by its ID; nil is returned if there is none
	GetByID(ctx context.Context, id uuid.UUID) (*Run, error)

	// GetLatest retrieves the most recently started run; nil is returned if there is none
	GetLatest(ctx context.Context) (*Run, error)
}
