package types

import (
	"context"
	"fmt"
	"slices"
)

// Snapshot is the immutable input of one distribution run.
//
// It holds the five record collections produced by ingestion. Previous is
// the final assignment list of the prior run; only its locked entries
// influence the next run.
type Snapshot struct {
	Schools     []School     `json:"schools" yaml:"schools"`
	Supervisors []Supervisor `json:"supervisors" yaml:"supervisors"`
	Guidance    []Guidance   `json:"guidance" yaml:"guidance"`
	Wishes      []Wish       `json:"wishes" yaml:"wishes"`
	Previous    []Assignment `json:"previous,omitempty" yaml:"previous,omitempty"`
}

// SnapshotSource provides the input snapshot for a run.
//
// Implementations may read files, remote sheets, or databases. The engine
// treats the returned snapshot as immutable for the duration of a run.
type SnapshotSource interface {
	// LoadSnapshot returns the current snapshot.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - Snapshot: Normalized records
	//   - error: Load or ingestion error
	LoadSnapshot(ctx context.Context) (Snapshot, error)
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Schools:     slices.Clone(s.Schools),
		Supervisors: slices.Clone(s.Supervisors),
		Guidance:    slices.Clone(s.Guidance),
		Wishes:      slices.Clone(s.Wishes),
		Previous:    slices.Clone(s.Previous),
	}
}

// WithMandatory returns a copy of the snapshot where the school's mandatory
// supervisor is set to name. An empty name clears it.
//
// Parameters:
//   - schoolCode: Target school
//   - name: Supervisor name to pin, or "" to clear
//
// Returns:
//   - Snapshot: Updated copy
//   - error: ErrSchoolNotFound when the code is unknown
func (s Snapshot) WithMandatory(schoolCode, name string) (Snapshot, error) {
	idx := slices.IndexFunc(s.Schools, func(sc School) bool { return sc.Code == schoolCode })
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrSchoolNotFound, schoolCode)
	}

	out := s.Clone()
	out.Schools[idx].MandatorySupervisorName = name

	return out, nil
}

// WithBulkMandatory pins name as mandatory supervisor on every school that
// matches filter.
//
// The update is refused when the supervisor is already mandatory on a school
// outside the filtered set, so one supervisor is never pinned to two
// unrelated groups of schools.
//
// Parameters:
//   - filter: Selects the target schools
//   - name: Supervisor name to pin (must be non-empty)
//
// Returns:
//   - Snapshot: Updated copy
//   - int: Number of schools updated
//   - error: ErrSchoolNotFound when nothing matches, ErrMandatoryElsewhere on conflict
func (s Snapshot) WithBulkMandatory(filter func(School) bool, name string) (Snapshot, int, error) {
	if name == "" {
		return s, 0, fmt.Errorf("%w: empty supervisor name", ErrSupervisorNotFound)
	}

	matched := make([]int, 0)
	for i, sc := range s.Schools {
		if filter(sc) {
			matched = append(matched, i)

			continue
		}
		if sc.MandatorySupervisorName == name {
			return s, 0, fmt.Errorf("%w: %s on %s", ErrMandatoryElsewhere, name, sc.Code)
		}
	}

	if len(matched) == 0 {
		return s, 0, fmt.Errorf("%w: no school matches the filter", ErrSchoolNotFound)
	}

	out := s.Clone()
	for _, i := range matched {
		out.Schools[i].MandatorySupervisorName = name
	}

	return out, len(matched), nil
}

// WithSupervisorStatus returns a copy of the snapshot with the supervisor's
// raw status replaced.
//
// Existing assignments to the supervisor are left untouched.
func (s Snapshot) WithSupervisorStatus(code, status string) (Snapshot, error) {
	idx := slices.IndexFunc(s.Supervisors, func(sup Supervisor) bool { return sup.Code == code })
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrSupervisorNotFound, code)
	}

	out := s.Clone()
	out.Supervisors[idx].Status = status

	return out, nil
}
