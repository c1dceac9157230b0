package engine

import "github.com/arloliu/tawzi/types"

// backfillGuidance returns the guidance code an assignment carries.
//
// The school's own code always wins. When it is empty the supervisor's code
// is copied and the second return value reports the copy.
func backfillGuidance(schoolGuidance string, sup types.Supervisor) (string, bool) {
	if schoolGuidance != "" {
		return schoolGuidance, false
	}
	if sup.GuidanceCode == "" {
		return "", false
	}

	return sup.GuidanceCode, true
}
