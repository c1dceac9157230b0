package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/tawzi/types"
)

// Memory is an in-process assignment store.
//
// Every saved record is kept and can be read back by version. Memory is
// safe for concurrent use.
type Memory struct {
	records *xsync.Map[int64, types.FinalRecord]
	version atomic.Int64
	latest  atomic.Int64
	now     func() time.Time
}

var _ types.AssignmentStore = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records: xsync.NewMap[int64, types.FinalRecord](),
		now:     time.Now,
	}
}

// SaveFinal stores rec as a new version.
//
// Parameters:
//   - ctx: Context checked before the write
//   - rec: Record to store; Version is assigned, SavedAt defaults to now
//
// Returns:
//   - types.FinalRecord: Stored record
//   - error: Context error only
func (m *Memory) SaveFinal(ctx context.Context, rec types.FinalRecord) (types.FinalRecord, error) {
	if err := ctx.Err(); err != nil {
		return types.FinalRecord{}, err
	}

	rec.Version = m.version.Add(1)
	if rec.SavedAt.IsZero() {
		rec.SavedAt = m.now().UTC()
	}
	rec.Assignments = slices.Clone(rec.Assignments)
	m.records.Store(rec.Version, rec)

	// Concurrent saves may finish out of order; latest only moves forward.
	for {
		cur := m.latest.Load()
		if cur >= rec.Version || m.latest.CompareAndSwap(cur, rec.Version) {
			break
		}
	}

	return cloneRecord(rec), nil
}

// LoadFinal returns the latest record.
//
// Returns:
//   - types.FinalRecord: Latest record
//   - error: types.ErrNoFinalRecord when nothing was saved
func (m *Memory) LoadFinal(ctx context.Context) (types.FinalRecord, error) {
	if err := ctx.Err(); err != nil {
		return types.FinalRecord{}, err
	}

	return m.Version(m.latest.Load())
}

// Version returns the record saved as version v.
func (m *Memory) Version(v int64) (types.FinalRecord, error) {
	rec, ok := m.records.Load(v)
	if !ok {
		return types.FinalRecord{}, fmt.Errorf("%w: version %d", types.ErrNoFinalRecord, v)
	}

	return cloneRecord(rec), nil
}

// History returns every saved record, oldest first.
func (m *Memory) History(ctx context.Context) ([]types.FinalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]types.FinalRecord, 0, m.records.Size())
	m.records.Range(func(_ int64, rec types.FinalRecord) bool {
		out = append(out, cloneRecord(rec))

		return true
	})
	slices.SortFunc(out, func(a, b types.FinalRecord) int {
		return cmp.Compare(a.Version, b.Version)
	})

	return out, nil
}

func cloneRecord(rec types.FinalRecord) types.FinalRecord {
	rec.Assignments = slices.Clone(rec.Assignments)

	return rec
}
