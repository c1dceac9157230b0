package types

import (
	"context"
	"time"
)

// FinalRecord is a persisted final assignment list.
type FinalRecord struct {
	// Version increases with every save.
	Version int64 `json:"version" yaml:"version"`

	// RunID is the run that produced the list, empty for manual edits.
	RunID string `json:"runId,omitempty" yaml:"runId,omitempty"`

	SavedAt     time.Time    `json:"savedAt" yaml:"savedAt"`
	Assignments []Assignment `json:"assignments" yaml:"assignments"`
}

// AssignmentStore persists the final assignment list between runs.
//
// The previous run's locked entries are read back from the store, so
// implementations must return exactly what was saved.
type AssignmentStore interface {
	// SaveFinal stores a final list as the new latest record.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - rec: Record to store; Version and SavedAt are assigned by the store
	//
	// Returns:
	//   - FinalRecord: Stored record with Version and SavedAt set
	//   - error: Storage error
	SaveFinal(ctx context.Context, rec FinalRecord) (FinalRecord, error)

	// LoadFinal returns the latest stored record.
	//
	// Returns:
	//   - FinalRecord: Latest record
	//   - error: ErrNoFinalRecord when nothing has been stored yet
	LoadFinal(ctx context.Context) (FinalRecord, error)
}
