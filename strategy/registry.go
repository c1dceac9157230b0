package strategy

import (
	"fmt"

	"github.com/arloliu/tawzi/types"
)

// Built-in strategy names accepted by ByName.
const (
	NameFairness = "fairness"
	NameLoadOnly = "load-only"
)

// ByName returns a built-in strategy by its configuration name.
//
// An empty name selects FairnessBalanced. LoadOnly takes only the total
// weight from the fairness options and uses it as its load weight.
//
// Parameters:
//   - name: Strategy name ("fairness" or "load-only")
//   - opts: Options applied to FairnessBalanced
//
// Returns:
//   - types.BalanceStrategy: Selected strategy
//   - error: ErrUnknownStrategy when the name is not recognized
func ByName(name string, opts ...FairnessOption) (types.BalanceStrategy, error) {
	switch name {
	case "", NameFairness:
		return NewFairnessBalanced(opts...), nil
	case NameLoadOnly:
		return NewLoadOnly(WithLoadWeight(NewFairnessBalanced(opts...).TotalWeight())), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
