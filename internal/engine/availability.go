package engine

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/arloliu/tawzi/types"
)

// unavailableStatuses are the raw status values that mark a supervisor inactive.
var unavailableStatuses = []string{"غير متاح", "غير نشط", "0"}

// IsAvailable reports whether a supervisor may receive new assignments.
//
// A supervisor is unavailable only when its status, trimmed and case-folded,
// equals one of the unavailable values. Any other value, including an empty
// status, means available.
func IsAvailable(sup types.Supervisor) bool {
	return IsAvailableStatus(sup.Status)
}

// IsAvailableStatus applies the availability rule to a raw status value.
func IsAvailableStatus(status string) bool {
	fold := cases.Fold()
	s := fold.String(strings.TrimSpace(status))
	for _, v := range unavailableStatuses {
		if s == fold.String(v) {
			return false
		}
	}

	return true
}

// ActiveSupervisors returns the available supervisors in input order.
//
// Records with an empty code are skipped and duplicate codes keep the first
// record, so the result can be indexed by code.
func ActiveSupervisors(supervisors []types.Supervisor) []types.Supervisor {
	active := make([]types.Supervisor, 0, len(supervisors))
	seen := make(map[string]struct{}, len(supervisors))
	for _, sup := range supervisors {
		if sup.Code == "" || !IsAvailable(sup) {
			continue
		}
		if _, dup := seen[sup.Code]; dup {
			continue
		}
		seen[sup.Code] = struct{}{}
		active = append(active, sup)
	}

	return active
}
