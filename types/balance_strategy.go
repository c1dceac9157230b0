package types

// LoadView exposes the current load of one supervisor to a BalanceStrategy.
type LoadView interface {
	// Total returns the number of schools assigned so far.
	Total() int

	// Stage returns the number of assigned schools of the given stage.
	Stage(stage string) int

	// Type returns the number of assigned schools of the given type.
	Type(schoolType string) int
}

// Score is the fitness of one candidate for one school. Lower is better.
type Score struct {
	// Value is the weighted penalty before tie-break jitter.
	Value float64

	// SpecialtyMatch reports whether the candidate's guidance equals the school's.
	SpecialtyMatch bool
}

// BalanceStrategy scores fallback candidates for a pending school.
//
// The engine calls Score once per under-capacity active supervisor for each
// school left after the wish rounds, adds a bounded random jitter, and picks
// the minimum. Implementations must be deterministic and side-effect free;
// randomness belongs to the engine so that runs stay reproducible.
type BalanceStrategy interface {
	// Score computes the fitness of a supervisor for a school.
	//
	// Parameters:
	//   - school: Pending school
	//   - supervisor: Candidate supervisor (active and under capacity)
	//   - load: Candidate's load so far in this run
	//
	// Returns:
	//   - Score: Weighted penalty and specialty match flag
	Score(school School, supervisor Supervisor, load LoadView) Score
}
