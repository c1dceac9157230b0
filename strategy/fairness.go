package strategy

import (
	"github.com/arloliu/tawzi/internal/logging"
	"github.com/arloliu/tawzi/types"
)

// Default FairnessBalanced weights.
const (
	DefaultTotalWeight      = 500.0
	DefaultStageWeight      = 50.0
	DefaultTypeWeight       = 25.0
	DefaultSpecialtyPenalty = 2000.0
)

// FairnessBalanced scores candidates by their current load and penalizes
// supervisors of another specialty.
//
//	score = total*W_total + stage(school.stage)*W_stage + type(school.type)*W_type
//	score += SpecialtyPenalty when the guidance codes differ
//
// A specialty match requires the school to have a guidance code equal to
// the supervisor's; two empty codes do not match.
type FairnessBalanced struct {
	totalWeight      float64
	stageWeight      float64
	typeWeight       float64
	specialtyPenalty float64
	logger           types.Logger
}

var _ types.BalanceStrategy = (*FairnessBalanced)(nil)

// FairnessOption configures a FairnessBalanced strategy.
type FairnessOption func(*FairnessBalanced)

// NewFairnessBalanced creates a new fairness-balanced strategy.
//
// Parameters:
//   - opts: Optional configuration (WithTotalWeight, WithStageWeight, WithTypeWeight, WithSpecialtyPenalty, WithLogger)
//
// Returns:
//   - *FairnessBalanced: Initialized strategy ready for use
//
// Example:
//
//	s := strategy.NewFairnessBalanced(strategy.WithSpecialtyPenalty(5000))
//	dist, err := tawzi.NewDistributor(&cfg, tawzi.WithStrategy(s))
func NewFairnessBalanced(opts ...FairnessOption) *FairnessBalanced {
	fb := &FairnessBalanced{
		totalWeight:      DefaultTotalWeight,
		stageWeight:      DefaultStageWeight,
		typeWeight:       DefaultTypeWeight,
		specialtyPenalty: DefaultSpecialtyPenalty,
		logger:           logging.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(fb)
		}
	}

	fb.normalizeConfig()

	return fb
}

// WithTotalWeight sets the weight of the candidate's total load.
func WithTotalWeight(w float64) FairnessOption {
	return func(fb *FairnessBalanced) {
		fb.totalWeight = w
	}
}

// WithStageWeight sets the weight of the candidate's load in the school's stage.
func WithStageWeight(w float64) FairnessOption {
	return func(fb *FairnessBalanced) {
		fb.stageWeight = w
	}
}

// WithTypeWeight sets the weight of the candidate's load in the school's type.
func WithTypeWeight(w float64) FairnessOption {
	return func(fb *FairnessBalanced) {
		fb.typeWeight = w
	}
}

// WithSpecialtyPenalty sets the penalty added when the guidance codes differ.
func WithSpecialtyPenalty(p float64) FairnessOption {
	return func(fb *FairnessBalanced) {
		fb.specialtyPenalty = p
	}
}

// WithLogger sets the logger used for configuration warnings.
func WithLogger(logger types.Logger) FairnessOption {
	return func(fb *FairnessBalanced) {
		fb.logger = logger
	}
}

// Score computes the weighted penalty of a candidate.
//
// Parameters:
//   - school: Pending school
//   - supervisor: Candidate supervisor
//   - load: Candidate's load so far
//
// Returns:
//   - types.Score: Penalty (lower is better) and specialty match flag
func (fb *FairnessBalanced) Score(school types.School, supervisor types.Supervisor, load types.LoadView) types.Score {
	value := float64(load.Total())*fb.totalWeight +
		float64(load.Stage(school.Stage))*fb.stageWeight +
		float64(load.Type(school.Type))*fb.typeWeight

	match := SpecialtyMatch(school, supervisor)
	if !match {
		value += fb.specialtyPenalty
	}

	return types.Score{Value: value, SpecialtyMatch: match}
}

// TotalWeight returns the configured total load weight.
func (fb *FairnessBalanced) TotalWeight() float64 {
	return fb.totalWeight
}

// SpecialtyPenalty returns the configured specialty penalty.
func (fb *FairnessBalanced) SpecialtyPenalty() float64 {
	return fb.specialtyPenalty
}

func (fb *FairnessBalanced) normalizeConfig() {
	if fb.logger == nil {
		fb.logger = logging.NewNop()
	}

	if fb.totalWeight < 0 {
		fb.logger.Warn("total weight must not be negative; clamping to 0", "provided", fb.totalWeight, "using", 0)
		fb.totalWeight = 0
	}

	if fb.stageWeight < 0 {
		fb.logger.Warn("stage weight must not be negative; clamping to 0", "provided", fb.stageWeight, "using", 0)
		fb.stageWeight = 0
	}

	if fb.typeWeight < 0 {
		fb.logger.Warn("type weight must not be negative; clamping to 0", "provided", fb.typeWeight, "using", 0)
		fb.typeWeight = 0
	}

	if fb.specialtyPenalty < 0 {
		fb.logger.Warn("specialty penalty must not be negative; clamping to 0", "provided", fb.specialtyPenalty, "using", 0)
		fb.specialtyPenalty = 0
	}
}

// SpecialtyMatch reports whether the supervisor belongs to the school's guidance.
func SpecialtyMatch(school types.School, supervisor types.Supervisor) bool {
	return school.GuidanceCode != "" && school.GuidanceCode == supervisor.GuidanceCode
}
