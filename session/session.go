package session

import (
	"fmt"
	"time"

	"github.com/hupe1980/computeruse/core"
)

// ErrNotFound is returned when no record exists for the given run id.
var ErrNotFound = fmt.Errorf("run record not found")

// Record is the immutable summary of one completed run.
type Record struct {
	RunID      string         `json:"run_id"`
	Goal       string         `json:"goal"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Result     core.RunResult `json:"result"`
}

// Store persists run records.
type Store interface {
	// Save stores (or overwrites) the record under its run id.
	Save(record Record) error

	// Get returns the record for the run id or ErrNotFound.
	Get(runID string) (Record, error)

	// List returns all stored records ordered by start time.
	List() ([]Record, error)
}
