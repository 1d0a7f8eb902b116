package inmem

import (
	"context"

	"github.com/hashicorp/go-memdb"
	"github.com/skybi/session-report/internal/archive"
	"github.com/skybi/session-report/internal/storage"
)

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"runs": {
			Name: "runs",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.UUIDFieldIndex{Field: "ID"},
				},
				"started": {
					Name:         "started",
					Unique:       false,
					AllowMissing: false,
					Indexer:      &memdb.IntFieldIndex{Field: "Started"},
				},
			},
		},
	},
}

// Driver represents the in-memory storage driver built using hashicorp/go-memdb
type Driver struct {
	db   *memdb.MemDB
	runs *RunRepository
}

var _ storage.Driver = (*Driver)(nil)

// New creates a new empty in-memory storage driver
func New() *Driver {
	return &Driver{}
}

// Initialize creates the in-memory database
func (driver *Driver) Initialize(_ context.Context) error {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return err
	}
	driver.db = db
	driver.runs = &RunRepository{db: db}
	return nil
}

// Runs provides the in-memory run archive repository implementation
func (driver *Driver) Runs() archive.Repository {
	return driver.runs
}

// Close discards the in-memory database
func (driver *Driver) Close() {
	driver.runs = nil
	driver.db = nil
}
