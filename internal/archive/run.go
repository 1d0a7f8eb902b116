package archive

import (
	"time"

	"github.com/google/uuid"
	"github.com/skybi/session-report/internal/report"
)

// Run represents a single archived report run.
// Complete is false if the user listing could not be traversed completely.
type Run struct {
	ID         uuid.UUID    `json:"id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	BaseURL    string       `json:"base_url"`
	Complete   bool         `json:"complete"`
	UserCount  int          `json:"user_count"`
	Rows       []report.Row `json:"rows"`
}
