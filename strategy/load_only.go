package strategy

import "github.com/arloliu/tawzi/types"

// LoadOnly scores candidates by total load alone.
//
//	score = total*LoadWeight
//
// Stage, type and specialty do not influence the choice, so the engine's
// jitter decides between equally loaded supervisors. The weight must exceed
// the engine's jitter range, otherwise noise outweighs one unit of load.
// The specialty flag is still reported for the assignment method.
type LoadOnly struct {
	loadWeight float64
}

var _ types.BalanceStrategy = (*LoadOnly)(nil)

// LoadOnlyOption configures a LoadOnly strategy.
type LoadOnlyOption func(*LoadOnly)

// NewLoadOnly creates a new load-only strategy.
//
// Parameters:
//   - opts: Optional configuration (WithLoadWeight)
//
// Returns:
//   - *LoadOnly: Initialized strategy, weighted by DefaultTotalWeight unless overridden
//
// Example:
//
//	dist, err := tawzi.NewDistributor(&cfg, tawzi.WithStrategy(strategy.NewLoadOnly()))
func NewLoadOnly(opts ...LoadOnlyOption) *LoadOnly {
	lo := &LoadOnly{loadWeight: DefaultTotalWeight}

	for _, opt := range opts {
		if opt != nil {
			opt(lo)
		}
	}

	if lo.loadWeight <= 0 {
		lo.loadWeight = DefaultTotalWeight
	}

	return lo
}

// WithLoadWeight sets the weight of one assigned school. Non-positive values
// keep DefaultTotalWeight.
func WithLoadWeight(w float64) LoadOnlyOption {
	return func(lo *LoadOnly) {
		lo.loadWeight = w
	}
}

// LoadWeight returns the configured load weight.
func (lo *LoadOnly) LoadWeight() float64 {
	return lo.loadWeight
}

// Score returns the candidate's weighted total load.
func (lo *LoadOnly) Score(school types.School, supervisor types.Supervisor, load types.LoadView) types.Score {
	return types.Score{
		Value:          float64(load.Total()) * lo.loadWeight,
		SpecialtyMatch: SpecialtyMatch(school, supervisor),
	}
}
