package types

// School is a distribution target.
//
// Schools are produced by the ingestion layer and are read-only for the
// engine except for MandatorySupervisorName, which administrators set
// between runs.
type School struct {
	// Code uniquely identifies the school.
	Code string `json:"code" yaml:"code" validate:"required"`

	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// Stage is the school stage category (primary, middle, secondary, ...).
	Stage string `json:"stage" yaml:"stage"`

	// Type is the school type category (general, private, technical, ...).
	Type string `json:"type" yaml:"type"`

	// GuidanceCode is the school's own specialty classifier. May be empty.
	GuidanceCode string `json:"guidanceCode,omitempty" yaml:"guidanceCode,omitempty"`

	// FixedSupervisorCode is a supervisor code carried by the source data.
	// Empty when the source has none.
	FixedSupervisorCode string `json:"fixedSupervisorCode,omitempty" yaml:"fixedSupervisorCode,omitempty"`

	// MandatorySupervisorName is the administrator-set sticky supervisor.
	// Resolved by exact name against active supervisors.
	MandatorySupervisorName string `json:"mandatorySupervisorName,omitempty" yaml:"mandatorySupervisorName,omitempty"`
}

// Supervisor is an assignable resource.
type Supervisor struct {
	// Code uniquely identifies the supervisor.
	Code string `json:"code" yaml:"code" validate:"required"`

	// Name is the display name, also used to resolve mandatory assignments.
	Name string `json:"name" yaml:"name" validate:"required"`

	// GuidanceCode is the supervisor's specialty.
	GuidanceCode string `json:"guidanceCode,omitempty" yaml:"guidanceCode,omitempty"`

	// Status is the raw availability status. Empty means available.
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Guidance is a specialty lookup entry.
type Guidance struct {
	Code string `json:"code" yaml:"code" validate:"required"`
	Name string `json:"name" yaml:"name"`
}

// Wish is a supervisor-submitted ranked list of preferred schools.
//
// Choices[0] is rank 1. Empty entries are unset ranks.
type Wish struct {
	SupervisorCode string              `json:"supervisorCode" yaml:"supervisorCode" validate:"required"`
	Choices        [MaxWishRank]string `json:"choices" yaml:"choices"`
}

// Choice returns the school code chosen at the given 1-based rank, or "".
func (w Wish) Choice(rank int) string {
	if rank < 1 || rank > MaxWishRank {
		return ""
	}

	return w.Choices[rank-1]
}

// DuplicateChoices returns school codes that appear at more than one rank.
func (w Wish) DuplicateChoices() []string {
	seen := make(map[string]bool, MaxWishRank)
	var dups []string
	for _, code := range w.Choices {
		if code == "" {
			continue
		}
		if seen[code] {
			dups = append(dups, code)

			continue
		}
		seen[code] = true
	}

	return dups
}

// Assignment is one element of the final assignment list; one per school.
type Assignment struct {
	SchoolCode string `json:"schoolCode" yaml:"schoolCode" validate:"required"`
	SchoolName string `json:"schoolName,omitempty" yaml:"schoolName,omitempty"`
	Stage      string `json:"stage,omitempty" yaml:"stage,omitempty"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`

	// SupervisorName and SupervisorCode are empty when the school is not assigned.
	SupervisorName string `json:"supervisorName,omitempty" yaml:"supervisorName,omitempty"`
	SupervisorCode string `json:"supervisorCode,omitempty" yaml:"supervisorCode,omitempty"`

	Method Method `json:"method" yaml:"method"`

	// GuidanceCode is the school's own guidance, or the supervisor's when
	// the school has none (GuidanceBackfilled is then true).
	GuidanceCode       string `json:"guidanceCode,omitempty" yaml:"guidanceCode,omitempty"`
	GuidanceBackfilled bool   `json:"guidanceBackfilled,omitempty" yaml:"guidanceBackfilled,omitempty"`
}

// IsAssigned reports whether the assignment carries a supervisor.
func (a Assignment) IsAssigned() bool {
	return a.Method.IsAssigned() && (a.SupervisorCode != "" || a.SupervisorName != "")
}
