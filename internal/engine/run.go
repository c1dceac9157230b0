package engine

import (
	"github.com/arloliu/tawzi/types"
)

// run is the private state of one engine run.
type run struct {
	*Engine

	snap    types.Snapshot
	active  []types.Supervisor
	byCode  map[string]types.Supervisor
	byName  map[string]types.Supervisor
	tracker *LoadTracker

	// final and schoolIdx are parallel to snap.Schools.
	final     []types.Assignment
	schoolIdx map[string]int

	latestWishCount int
	coverage        [3]int
	log             types.RunLog
}

func newRun(e *Engine, snap types.Snapshot) *run {
	active := ActiveSupervisors(snap.Supervisors)
	codes := make([]string, len(active))
	byCode := make(map[string]types.Supervisor, len(active))
	byName := make(map[string]types.Supervisor, len(active))
	for i, sup := range active {
		codes[i] = sup.Code
		byCode[sup.Code] = sup
		if _, dup := byName[sup.Name]; !dup && sup.Name != "" {
			byName[sup.Name] = sup
		}
	}

	schoolIdx := make(map[string]int, len(snap.Schools))
	for i, s := range snap.Schools {
		if _, dup := schoolIdx[s.Code]; !dup {
			schoolIdx[s.Code] = i
		}
	}

	return &run{
		Engine:    e,
		snap:      snap,
		active:    active,
		byCode:    byCode,
		byName:    byName,
		tracker:   NewLoadTracker(codes),
		final:     make([]types.Assignment, len(snap.Schools)),
		schoolIdx: schoolIdx,
	}
}

// record appends an entry to the run log and mirrors it to the logger.
func (r *run) record(kind types.LogKind, pass, round int, school, supervisor, msg string) {
	entry := types.LogEntry{
		Seq:            len(r.log) + 1,
		Pass:           pass,
		Round:          round,
		Kind:           kind,
		SchoolCode:     school,
		SupervisorCode: supervisor,
		Message:        msg,
	}
	r.log = append(r.log, entry)

	kv := []any{"pass", pass, "kind", string(kind)}
	if round > 0 {
		kv = append(kv, "round", round)
	}
	if school != "" {
		kv = append(kv, "school", school)
	}
	if supervisor != "" {
		kv = append(kv, "supervisor", supervisor)
	}

	if kind.IsWarning() {
		r.logger.Warn(msg, kv...)
	} else {
		r.logger.Debug(msg, kv...)
	}
}

// assign gives school idx to sup, registers its load and backfills guidance.
func (r *run) assign(idx int, sup types.Supervisor, method types.Method) {
	school := r.snap.Schools[idx]
	guidance, backfilled := backfillGuidance(school.GuidanceCode, sup)

	r.final[idx] = types.Assignment{
		SchoolCode:         school.Code,
		SchoolName:         school.Name,
		Stage:              school.Stage,
		Type:               school.Type,
		SupervisorName:     sup.Name,
		SupervisorCode:     sup.Code,
		Method:             method,
		GuidanceCode:       guidance,
		GuidanceBackfilled: backfilled,
	}
	r.tracker.Increment(sup.Code, school.Stage, school.Type)
}

// unassigned returns the pending entry for a school.
func unassigned(school types.School) types.Assignment {
	return types.Assignment{
		SchoolCode:   school.Code,
		SchoolName:   school.Name,
		Stage:        school.Stage,
		Type:         school.Type,
		Method:       types.MethodUnassigned,
		GuidanceCode: school.GuidanceCode,
	}
}

func (r *run) underCapacity(code string) bool {
	return r.tracker.UnderCapacity(code, r.cfg.LoadLimit)
}

func (r *run) assignedCount() int {
	n := 0
	for _, a := range r.final {
		if a.IsAssigned() {
			n++
		}
	}

	return n
}

func (r *run) stats() types.RunStats {
	byMethod := make(map[string]int)
	for _, a := range r.final {
		byMethod[a.Method.String()]++
	}

	return types.RunStats{
		Schools:           len(r.snap.Schools),
		ActiveSupervisors: len(r.active),
		LatestWishes:      r.latestWishCount,
		PassCoverage:      r.coverage,
		ByMethod:          byMethod,
	}
}
