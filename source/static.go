package source

import (
	"context"
	"sync"

	"github.com/arloliu/tawzi/types"
)

// Static implements a snapshot source with a fixed snapshot.
type Static struct {
	mu   sync.RWMutex
	snap types.Snapshot
}

var _ types.SnapshotSource = (*Static)(nil)

// NewStatic creates a new static snapshot source.
//
// The source returns a copy of the same snapshot on every call. Useful for
// testing and for callers that build records in code.
//
// Parameters:
//   - snap: Snapshot to serve
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic(types.Snapshot{
//	    Schools:     []types.School{{Code: "S1", Stage: "secondary"}},
//	    Supervisors: []types.Supervisor{{Code: "A", Name: "Alice"}},
//	})
//	res, err := dist.Redistribute(ctx, src, store.NewMemory())
func NewStatic(snap types.Snapshot) *Static {
	return &Static{snap: snap.Clone()}
}

// LoadSnapshot returns a copy of the static snapshot.
//
// Returns:
//   - types.Snapshot: Copy of the snapshot
//   - error: Only the context error when ctx is already done
func (s *Static) LoadSnapshot(ctx context.Context) (types.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return types.Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snap.Clone(), nil
}

// Update replaces the snapshot.
//
// This lets tests simulate administrators editing the sheets between runs.
//
// Parameters:
//   - snap: New snapshot
//
// Example:
//
//	next, _ := snap.WithMandatory("S1", "Alice")
//	src.Update(next)
func (s *Static) Update(snap types.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = snap.Clone()
}
