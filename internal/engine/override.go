package engine

import (
	"fmt"
	"slices"

	"github.com/arloliu/tawzi/types"
)

// Override corrects one entry of a final assignment list without a rerun.
//
// An empty supervisorName clears the entry with MethodLockedCleared, which
// the next run does not carry forward. Otherwise the named supervisor is
// looked up by exact name among all supervisors, active or not, and the
// entry becomes MethodLocked. Guidance is recomputed when the entry had no
// guidance of its own.
//
// Load is not recomputed here; a later run replays the lock in pass 1.
//
// Parameters:
//   - final: Current final list, not modified
//   - supervisors: Supervisor records used to resolve the name
//   - schoolCode: Target school
//   - supervisorName: Supervisor to lock, or "" to clear
//
// Returns:
//   - []types.Assignment: Updated copy of final
//   - error: ErrSchoolNotFound or ErrSupervisorNotFound
func Override(final []types.Assignment, supervisors []types.Supervisor, schoolCode, supervisorName string) ([]types.Assignment, error) {
	idx := slices.IndexFunc(final, func(a types.Assignment) bool { return a.SchoolCode == schoolCode })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrSchoolNotFound, schoolCode)
	}

	entry := final[idx]
	schoolGuidance := entry.GuidanceCode
	if entry.GuidanceBackfilled {
		schoolGuidance = ""
	}

	if supervisorName == "" {
		entry.SupervisorName = ""
		entry.SupervisorCode = ""
		entry.Method = types.MethodLockedCleared
		entry.GuidanceCode = schoolGuidance
		entry.GuidanceBackfilled = false
	} else {
		sidx := slices.IndexFunc(supervisors, func(s types.Supervisor) bool { return s.Name == supervisorName })
		if sidx < 0 {
			return nil, fmt.Errorf("%w: %s", types.ErrSupervisorNotFound, supervisorName)
		}

		sup := supervisors[sidx]
		entry.SupervisorName = sup.Name
		entry.SupervisorCode = sup.Code
		entry.Method = types.MethodLocked
		entry.GuidanceCode, entry.GuidanceBackfilled = backfillGuidance(schoolGuidance, sup)
	}

	out := slices.Clone(final)
	out[idx] = entry

	return out, nil
}
