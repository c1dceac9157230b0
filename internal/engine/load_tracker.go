package engine

import "github.com/arloliu/tawzi/types"

// supervisorLoad holds the counters of one supervisor.
type supervisorLoad struct {
	total   int
	byStage map[string]int
	byType  map[string]int
}

var _ types.LoadView = (*supervisorLoad)(nil)

func (l *supervisorLoad) Total() int {
	return l.total
}

func (l *supervisorLoad) Stage(stage string) int {
	return l.byStage[stage]
}

func (l *supervisorLoad) Type(schoolType string) int {
	return l.byType[schoolType]
}

// emptyLoad is returned for untracked codes.
var emptyLoad = &supervisorLoad{}

// LoadTracker counts assignments per active supervisor during one run.
//
// A tracker is private to a run and is not safe for concurrent use: every
// increment must be applied in pass order because later passes score
// candidates against the counters left by earlier ones.
type LoadTracker struct {
	loads map[string]*supervisorLoad
}

// NewLoadTracker creates a tracker for the given supervisor codes with all
// counters at zero.
//
// Parameters:
//   - codes: Codes of the active supervisors
//
// Returns:
//   - *LoadTracker: Ready-to-use tracker
func NewLoadTracker(codes []string) *LoadTracker {
	loads := make(map[string]*supervisorLoad, len(codes))
	for _, code := range codes {
		loads[code] = &supervisorLoad{
			byStage: make(map[string]int),
			byType:  make(map[string]int),
		}
	}

	return &LoadTracker{loads: loads}
}

// Increment registers one assignment for code.
//
// It is a no-op when code is not tracked, which is the case for supervisors
// that are inactive or unknown. Empty stage or type values are not bucketed.
//
// Returns:
//   - bool: true if the counters changed
func (t *LoadTracker) Increment(code, stage, schoolType string) bool {
	l, ok := t.loads[code]
	if !ok {
		return false
	}

	l.total++
	if stage != "" {
		l.byStage[stage]++
	}
	if schoolType != "" {
		l.byType[schoolType]++
	}

	return true
}

// Tracked reports whether code belongs to an active supervisor.
func (t *LoadTracker) Tracked(code string) bool {
	_, ok := t.loads[code]

	return ok
}

// Total returns the total load of code, 0 when untracked.
func (t *LoadTracker) Total(code string) int {
	return t.View(code).Total()
}

// UnderCapacity reports whether code is tracked and below limit.
func (t *LoadTracker) UnderCapacity(code string, limit int) bool {
	l, ok := t.loads[code]

	return ok && l.total < limit
}

// View returns a read-only view of the counters of code.
func (t *LoadTracker) View(code string) types.LoadView {
	if l, ok := t.loads[code]; ok {
		return l
	}

	return emptyLoad
}
