package report

import (
	"cmp"
	"math"
	"slices"

	"github.com/arloliu/tawzi/internal/engine"
	"github.com/arloliu/tawzi/types"
)

// Summary is the dashboard view of a final list.
type Summary struct {
	Schools  int `json:"schools" yaml:"schools"`
	Assigned int `json:"assigned" yaml:"assigned"`

	// CoveragePercent is Assigned/Schools rounded to the nearest integer.
	CoveragePercent int `json:"coveragePercent" yaml:"coveragePercent"`

	ActiveSupervisors int `json:"activeSupervisors" yaml:"activeSupervisors"`
	TotalSupervisors  int `json:"totalSupervisors" yaml:"totalSupervisors"`

	// Wishes is the number of submitted wish records, repeats included.
	Wishes int `json:"wishes" yaml:"wishes"`

	ByMethod map[string]int `json:"byMethod" yaml:"byMethod"`
}

// Summarize computes the dashboard counters.
func Summarize(snap types.Snapshot, final []types.Assignment) Summary {
	s := Summary{
		Schools:           len(snap.Schools),
		ActiveSupervisors: len(engine.ActiveSupervisors(snap.Supervisors)),
		TotalSupervisors:  len(snap.Supervisors),
		Wishes:            len(snap.Wishes),
		ByMethod:          make(map[string]int),
	}

	for _, a := range final {
		s.ByMethod[a.Method.String()]++
		if a.IsAssigned() {
			s.Assigned++
		}
	}

	if s.Schools > 0 {
		s.CoveragePercent = int(math.Round(float64(s.Assigned) / float64(s.Schools) * 100))
	}

	return s
}

// UnassignedSupervisors returns the active supervisors holding no school,
// in input order.
func UnassignedSupervisors(supervisors []types.Supervisor, final []types.Assignment) []types.Supervisor {
	held := heldCodes(final)

	var out []types.Supervisor
	for _, sup := range engine.ActiveSupervisors(supervisors) {
		if _, ok := held[sup.Code]; !ok {
			out = append(out, sup)
		}
	}

	return out
}

// InactiveAssignments returns the entries held by a known supervisor that
// is no longer available.
func InactiveAssignments(supervisors []types.Supervisor, final []types.Assignment) []types.Assignment {
	inactive := make(map[string]struct{})
	for _, sup := range supervisors {
		if !engine.IsAvailable(sup) {
			inactive[sup.Code] = struct{}{}
		}
	}

	var out []types.Assignment
	for _, a := range final {
		if !a.IsAssigned() || a.SupervisorCode == "" {
			continue
		}
		if _, ok := inactive[a.SupervisorCode]; ok {
			out = append(out, a)
		}
	}

	return out
}

// ProblemReason explains why a school is listed as a problem.
type ProblemReason string

const (
	// ReasonUnassigned marks a school without supervisor.
	ReasonUnassigned ProblemReason = "unassigned"

	// ReasonInactiveSupervisor marks a school held by an inactive supervisor.
	ReasonInactiveSupervisor ProblemReason = "inactive-supervisor"
)

// Problem is one school needing administrator attention.
type Problem struct {
	Assignment types.Assignment `json:"assignment" yaml:"assignment"`
	Reason     ProblemReason    `json:"reason" yaml:"reason"`
}

// ProblemSchools lists unassigned schools first, then schools held by
// inactive supervisors, each group in final-list order.
func ProblemSchools(supervisors []types.Supervisor, final []types.Assignment) []Problem {
	var out []Problem
	for _, a := range final {
		if !a.IsAssigned() {
			out = append(out, Problem{Assignment: a, Reason: ReasonUnassigned})
		}
	}
	for _, a := range InactiveAssignments(supervisors, final) {
		out = append(out, Problem{Assignment: a, Reason: ReasonInactiveSupervisor})
	}

	return out
}

// AffectedSchools returns the entries held by the supervisor code, which
// need a new supervisor when that supervisor is deactivated.
func AffectedSchools(final []types.Assignment, supervisorCode string) []types.Assignment {
	if supervisorCode == "" {
		return nil
	}

	var out []types.Assignment
	for _, a := range final {
		if a.IsAssigned() && a.SupervisorCode == supervisorCode {
			out = append(out, a)
		}
	}

	return out
}

// Load is the set of schools held by one supervisor.
type Load struct {
	SupervisorCode string   `json:"supervisorCode" yaml:"supervisorCode"`
	SupervisorName string   `json:"supervisorName" yaml:"supervisorName"`
	Schools        []string `json:"schools" yaml:"schools"`
}

// OverCapacity returns the supervisors holding more than limit schools,
// sorted by supervisor code. A run only produces these through locks.
func OverCapacity(final []types.Assignment, limit int) []Load {
	loads := make(map[string]*Load)
	for _, a := range final {
		if !a.IsAssigned() || a.SupervisorCode == "" {
			continue
		}
		l, ok := loads[a.SupervisorCode]
		if !ok {
			l = &Load{SupervisorCode: a.SupervisorCode, SupervisorName: a.SupervisorName}
			loads[a.SupervisorCode] = l
		}
		l.Schools = append(l.Schools, a.SchoolCode)
	}

	var out []Load
	for _, l := range loads {
		if len(l.Schools) > limit {
			out = append(out, *l)
		}
	}
	slices.SortFunc(out, func(a, b Load) int {
		return cmp.Compare(a.SupervisorCode, b.SupervisorCode)
	})

	return out
}

// GuidanceName renders a guidance code for display.
//
// Known codes render as "name (code)". A code may also be given by its
// name. Unknown codes render as themselves and an empty code as "-".
func GuidanceName(guidance []types.Guidance, code string) string {
	if code == "" {
		return "-"
	}

	idx := slices.IndexFunc(guidance, func(g types.Guidance) bool {
		return g.Code == code || g.Name == code
	})
	if idx < 0 {
		return code
	}
	if name := guidance[idx].Name; name != "" {
		return name + " (" + code + ")"
	}

	return code
}

func heldCodes(final []types.Assignment) map[string]struct{} {
	held := make(map[string]struct{}, len(final))
	for _, a := range final {
		if a.IsAssigned() && a.SupervisorCode != "" {
			held[a.SupervisorCode] = struct{}{}
		}
	}

	return held
}
