package engine

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/tawzi/types"
)

const (
	passFixed   = 1
	passWishes  = 2
	passBalance = 3
)

// passFixed carries locks forward, then resolves mandatory and fixed
// assignments. Every other school is left unassigned.
func (r *run) passFixed() {
	locks := r.previousLocks()

	// Locks are replayed before anything else so that their load constrains
	// mandatory and fixed assignments of schools earlier in input order.
	locked := make([]bool, len(r.final))
	for i, school := range r.snap.Schools {
		lock, ok := locks[school.Code]
		if !ok || r.schoolIdx[school.Code] != i {
			continue
		}

		locked[i] = true
		r.final[i] = lock
		r.tracker.Increment(lock.SupervisorCode, school.Stage, school.Type)
		r.record(types.KindCarried, passFixed, 0, school.Code, lock.SupervisorCode,
			fmt.Sprintf("locked assignment of %q to %q carried forward", school.Code, lock.SupervisorName))

		if lock.SupervisorCode != "" && !r.tracker.Tracked(lock.SupervisorCode) {
			r.record(types.KindStale, passFixed, 0, school.Code, lock.SupervisorCode,
				fmt.Sprintf("school %q is locked to inactive supervisor %q", school.Code, lock.SupervisorName))
		}
	}

	for i, school := range r.snap.Schools {
		if locked[i] {
			continue
		}
		if r.schoolIdx[school.Code] != i {
			r.final[i] = unassigned(school)
			r.record(types.KindInfo, passFixed, 0, school.Code, "",
				fmt.Sprintf("duplicate school code %q left unassigned", school.Code))

			continue
		}

		if r.assignMandatory(i, school) || r.assignFixedCode(i, school) {
			continue
		}

		r.final[i] = unassigned(school)
	}

	r.record(types.KindInfo, passFixed, 0, "", "",
		fmt.Sprintf("locks, mandatory and fixed assignments applied, %d schools pending", len(r.snap.Schools)-r.assignedCount()))
}

// previousLocks indexes the locked entries of the prior final list by school.
// Later entries for the same school win.
func (r *run) previousLocks() map[string]types.Assignment {
	locks := make(map[string]types.Assignment)
	for _, prev := range r.snap.Previous {
		if prev.Method != types.MethodLocked {
			continue
		}
		if _, ok := r.schoolIdx[prev.SchoolCode]; !ok {
			r.record(types.KindInfo, passFixed, 0, prev.SchoolCode, prev.SupervisorCode,
				fmt.Sprintf("locked assignment for unknown school %q dropped", prev.SchoolCode))

			continue
		}
		locks[prev.SchoolCode] = prev
	}

	return locks
}

func (r *run) assignMandatory(idx int, school types.School) bool {
	name := school.MandatorySupervisorName
	if name == "" {
		return false
	}

	sup, ok := r.byName[name]
	if !ok {
		r.record(types.KindMissingReference, passFixed, 0, school.Code, "",
			fmt.Sprintf("mandatory supervisor %q of school %q is not an active supervisor", name, school.Code))

		return false
	}
	if !r.underCapacity(sup.Code) {
		r.record(types.KindSkipped, passFixed, 0, school.Code, sup.Code,
			fmt.Sprintf("mandatory supervisor %q of school %q is already at capacity", name, school.Code))

		return false
	}

	r.assign(idx, sup, types.MethodMandatory)
	r.record(types.KindAssigned, passFixed, 0, school.Code, sup.Code,
		fmt.Sprintf("school %q assigned to %q as mandatory", school.Code, sup.Name))

	return true
}

func (r *run) assignFixedCode(idx int, school types.School) bool {
	code := school.FixedSupervisorCode
	if code == "" {
		return false
	}

	sup, ok := r.byCode[code]
	if !ok {
		r.record(types.KindInfo, passFixed, 0, school.Code, code,
			fmt.Sprintf("fixed supervisor code %q of school %q is not an active supervisor", code, school.Code))

		return false
	}
	if !r.underCapacity(code) {
		r.record(types.KindSkipped, passFixed, 0, school.Code, code,
			fmt.Sprintf("fixed supervisor %q of school %q is already at capacity", sup.Name, school.Code))

		return false
	}

	r.assign(idx, sup, types.MethodFixed)
	r.record(types.KindAssigned, passFixed, 0, school.Code, code,
		fmt.Sprintf("school %q assigned to %q from the school record", school.Code, sup.Name))

	return true
}

// passWishes satisfies wishes rank by rank across all active supervisors.
//
// Round N considers only the N-th choice of every supervisor, so a second
// choice never takes a seat before every first choice has been tried.
func (r *run) passWishes() {
	latest := r.latestWishes()
	r.record(types.KindInfo, passWishes, 0, "", "", fmt.Sprintf("wishes of %d supervisors analysed", len(latest)))
	if len(latest) == 0 {
		return
	}

	order := slices.Clone(r.active)
	for round := 1; round <= r.cfg.WishRounds; round++ {
		r.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for _, sup := range order {
			wish, ok := latest[sup.Code]
			if !ok {
				continue
			}

			if !r.underCapacity(sup.Code) {
				if round == 1 {
					r.record(types.KindSkipped, passWishes, round, "", sup.Code,
						fmt.Sprintf("supervisor %q skips wishes, already assigned", sup.Name))
				}

				continue
			}

			code := wish.Choice(round)
			if code == "" {
				continue
			}

			idx, ok := r.schoolIdx[code]
			if !ok {
				r.record(types.KindMissingReference, passWishes, round, code, sup.Code,
					fmt.Sprintf("supervisor %q wished for unknown school %q", sup.Name, code))

				continue
			}

			if held := r.final[idx]; held.Method != types.MethodUnassigned {
				r.record(types.KindConflict, passWishes, round, code, sup.Code,
					fmt.Sprintf("supervisor %q wished for school %q already held by %q", sup.Name, code, held.SupervisorName))

				continue
			}

			method := types.WishMethod(round)
			r.assign(idx, sup, method)
			r.record(types.KindAssigned, passWishes, round, code, sup.Code,
				fmt.Sprintf("school %q assigned to %q as %s", code, sup.Name, method))
		}
	}
}

// latestWishes keeps the last wish of every active supervisor.
func (r *run) latestWishes() map[string]types.Wish {
	latest := make(map[string]types.Wish)
	for _, w := range r.snap.Wishes {
		if r.tracker.Tracked(w.SupervisorCode) {
			latest[w.SupervisorCode] = w
		}
	}
	r.latestWishCount = len(latest)

	return latest
}

// passBalance fills the remaining schools with the lowest-scoring
// under-capacity supervisor.
func (r *run) passBalance() {
	pending := make([]int, 0, len(r.final))
	for i, a := range r.final {
		if a.Method == types.MethodUnassigned && r.schoolIdx[a.SchoolCode] == i {
			pending = append(pending, i)
		}
	}
	r.rng.Shuffle(len(pending), func(i, j int) { pending[i], pending[j] = pending[j], pending[i] })

	r.record(types.KindInfo, passBalance, 0, "", "", fmt.Sprintf("balanced fill of %d pending schools", len(pending)))

	for _, idx := range pending {
		school := r.snap.Schools[idx]

		best := -1
		bestValue := math.Inf(1)
		bestMatch := false
		for i, sup := range r.active {
			if !r.underCapacity(sup.Code) {
				continue
			}

			score := r.strategy.Score(school, sup, r.tracker.View(sup.Code))
			value := score.Value
			if r.cfg.JitterRange > 0 {
				value += r.rng.Float64() * r.cfg.JitterRange
			}
			if value < bestValue {
				best, bestValue, bestMatch = i, value, score.SpecialtyMatch
			}
		}

		if best < 0 {
			r.record(types.KindCapacityExhausted, passBalance, 0, school.Code, "",
				fmt.Sprintf("no supervisor under capacity for school %q", school.Code))

			continue
		}

		method := types.MethodBalancedGeneral
		if bestMatch {
			method = types.MethodBalancedSpecialty
		}

		sup := r.active[best]
		r.assign(idx, sup, method)
		r.record(types.KindAssigned, passBalance, 0, school.Code, sup.Code,
			fmt.Sprintf("school %q assigned to %q as %s (score %.1f)", school.Code, sup.Name, method, bestValue))
	}
}
