package types

import (
	"fmt"
	"strings"
)

// LogKind classifies a run log entry.
type LogKind string

const (
	// KindInfo is a progress or summary line.
	KindInfo LogKind = "info"

	// KindAssigned records a supervisor assigned to a school.
	KindAssigned LogKind = "assigned"

	// KindCarried records a locked assignment carried forward from the previous run.
	KindCarried LogKind = "carried"

	// KindSkipped records a supervisor skipped because it is already at capacity.
	KindSkipped LogKind = "skipped"

	// KindConflict records a wish for a school that is already taken.
	KindConflict LogKind = "conflict"

	// KindMissingReference records a wish or mandatory name that does not resolve.
	KindMissingReference LogKind = "missing-reference"

	// KindCapacityExhausted records a school left unassigned because no candidate remains.
	KindCapacityExhausted LogKind = "capacity-exhausted"

	// KindStale records an assignment held by a supervisor who is no longer active.
	KindStale LogKind = "stale"

	// KindInvalidInput records a run aborted because of unusable input.
	KindInvalidInput LogKind = "invalid-input"
)

// IsWarning reports whether the entry kind is a non-fatal warning.
func (k LogKind) IsWarning() bool {
	switch k {
	case KindMissingReference, KindCapacityExhausted, KindStale, KindInvalidInput:
		return true
	default:
		return false
	}
}

// LogEntry is one significant decision made during a run.
type LogEntry struct {
	// Seq is the 1-based position of the entry within the run.
	Seq int `json:"seq" yaml:"seq"`

	// Pass is the pass that produced the entry (0 for run-level entries).
	Pass int `json:"pass" yaml:"pass"`

	// Round is the wish round for pass 2 entries, 0 otherwise.
	Round int `json:"round,omitempty" yaml:"round,omitempty"`

	Kind           LogKind `json:"kind" yaml:"kind"`
	SchoolCode     string  `json:"schoolCode,omitempty" yaml:"schoolCode,omitempty"`
	SupervisorCode string  `json:"supervisorCode,omitempty" yaml:"supervisorCode,omitempty"`
	Message        string  `json:"message" yaml:"message"`
}

// String renders the entry as a human-readable trace line.
func (e LogEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%03d pass=%d", e.Seq, e.Pass)
	if e.Round > 0 {
		fmt.Fprintf(&b, " round=%d", e.Round)
	}
	fmt.Fprintf(&b, " [%s] %s", e.Kind, e.Message)

	return b.String()
}

// RunLog is the ordered trace of a run.
type RunLog []LogEntry

// Lines renders every entry as a trace line.
func (l RunLog) Lines() []string {
	lines := make([]string, len(l))
	for i, e := range l {
		lines[i] = e.String()
	}

	return lines
}

// Filter returns the entries of the given kind.
func (l RunLog) Filter(kind LogKind) RunLog {
	var out RunLog
	for _, e := range l {
		if e.Kind == kind {
			out = append(out, e)
		}
	}

	return out
}

// Warnings returns the warning entries.
func (l RunLog) Warnings() RunLog {
	var out RunLog
	for _, e := range l {
		if e.Kind.IsWarning() {
			out = append(out, e)
		}
	}

	return out
}

// RunStats summarizes a run.
type RunStats struct {
	// Schools is the number of schools in the snapshot.
	Schools int `json:"schools" yaml:"schools"`

	// ActiveSupervisors is the size of the active supervisor set.
	ActiveSupervisors int `json:"activeSupervisors" yaml:"activeSupervisors"`

	// LatestWishes is the number of supervisors with an authoritative wish.
	LatestWishes int `json:"latestWishes" yaml:"latestWishes"`

	// PassCoverage holds the number of assigned schools after passes 1, 2 and 3.
	PassCoverage [3]int `json:"passCoverage" yaml:"passCoverage"`

	// ByMethod counts final assignments per method tag.
	ByMethod map[string]int `json:"byMethod" yaml:"byMethod"`
}

// Assigned returns the number of assigned schools after the last pass.
func (s RunStats) Assigned() int {
	return s.PassCoverage[2]
}

// Coverage returns the assigned ratio in [0, 1].
func (s RunStats) Coverage() float64 {
	if s.Schools == 0 {
		return 0
	}

	return float64(s.Assigned()) / float64(s.Schools)
}

// Result is the output of one distribution run.
type Result struct {
	// RunID identifies the run.
	RunID string `json:"runId" yaml:"runId"`

	// Seed is the seed of the random source, 0 when a caller-provided source was used.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Fingerprint is the xxh3 digest of the input snapshot.
	Fingerprint uint64 `json:"fingerprint" yaml:"fingerprint"`

	// Assignments is the final assignment list, one entry per school in input order.
	Assignments []Assignment `json:"assignments" yaml:"assignments"`

	Log   RunLog   `json:"log" yaml:"log"`
	Stats RunStats `json:"stats" yaml:"stats"`
}
