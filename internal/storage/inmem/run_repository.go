package inmem

import (
	"context"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/skybi/session-report/internal/archive"
)

// runRecord is the memdb representation of a run; memdb indexes need string and integer fields
type runRecord struct {
	ID      string
	Started int64
	Run     *archive.Run
}

// RunRepository implements the archive.Repository interface using go-memdb
type RunRepository struct {
	db *memdb.MemDB
}

var _ archive.Repository = (*RunRepository)(nil)

// Create archives a new run
func (repo *RunRepository) Create(_ context.Context, run *archive.Run) error {
	cpy := *run
	cpy.Rows = append(cpy.Rows[:0:0], run.Rows...)

	txn := repo.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert("runs", &runRecord{
		ID:      run.ID.String(),
		Started: run.StartedAt.UnixNano(),
		Run:     &cpy,
	}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// GetByID retrieves a run by its ID
func (repo *RunRepository) GetByID(_ context.Context, id uuid.UUID) (*archive.Run, error) {
	txn := repo.db.Txn(false)
	obj, err := txn.First("runs", "id", id.String())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*runRecord).Run, nil
}

// GetLatest retrieves the most recently started run
func (repo *RunRepository) GetLatest(_ context.Context) (*archive.Run, error) {
	txn := repo.db.Txn(false)
	obj, err := txn.Last("runs", "started")
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*runRecord).Run, nil
}
